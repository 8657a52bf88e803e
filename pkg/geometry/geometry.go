/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package geometry

/*****************************************************************************************************************/

import (
	"math"

	"github.com/nyx-astro/startrack/pkg/vector"
)

/*****************************************************************************************************************/

const radiansToArcseconds = (180 * 3600) / math.Pi

/*****************************************************************************************************************/

func DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

/*****************************************************************************************************************/

// AngularSeparationArcseconds returns the great-circle separation between two
// unit vectors, expressed in arcseconds. Both vectors are expected to already
// be unit-norm; callers that need an invariant check should use vector.Vec3's
// IsUnit before calling this.
func AngularSeparationArcseconds(a, b vector.Vec3) float64 {
	return a.AngleRadians(b) * radiansToArcseconds
}

/*****************************************************************************************************************/

// UnitVectorFromPixel converts an image-plane pixel position, relative to the
// sensor center, into a camera-frame unit vector using the tangent-plane
// (gnomonic) model: the boresight is +x, and px/py map to the y/z axes scaled
// by the half-field tangents.
func UnitVectorFromPixel(px, py, imgW, imgH, pixXTangent, pixYTangent float64) vector.Vec3 {
	y := (px - imgW/2) * pixXTangent
	z := (py - imgH/2) * pixYTangent

	v := vector.Vec3{X: 1, Y: y, Z: z}

	return v.Normalize()
}

/*****************************************************************************************************************/

// PixelFromUnitVector is the inverse of UnitVectorFromPixel: it projects a
// camera-frame unit vector onto the image plane. The boolean return is false
// if the vector lies behind the camera (u.X <= 0), in which case no pixel
// position exists.
func PixelFromUnitVector(u vector.Vec3, imgW, imgH, pixXTangent, pixYTangent float64) (px, py float64, ok bool) {
	if u.X <= 0 {
		return 0, 0, false
	}

	px = (u.Y/u.X)/pixXTangent + imgW/2
	py = (u.Z/u.X)/pixYTangent + imgH/2

	return px, py, true
}

/*****************************************************************************************************************/
