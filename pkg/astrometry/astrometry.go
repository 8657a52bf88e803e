/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package astrometry

/*****************************************************************************************************************/

import (
	"math"

	"github.com/nyx-astro/startrack/pkg/vector"
)

/*****************************************************************************************************************/

type ICRSEquatorialCoordinate struct {
	RA  float64
	Dec float64
}

/*****************************************************************************************************************/

// ToUnitVector converts an ICRS equatorial coordinate, given in degrees, into
// a celestial-frame unit vector (+x towards RA=0/Dec=0, +z towards the north
// celestial pole). This is the boundary conversion every catalog source
// collaborator's raw RA/Dec must pass through before entering the star table.
func (eq ICRSEquatorialCoordinate) ToUnitVector() vector.Vec3 {
	ra := eq.RA * math.Pi / 180
	dec := eq.Dec * math.Pi / 180

	return vector.Vec3{
		X: math.Cos(dec) * math.Cos(ra),
		Y: math.Cos(dec) * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

/*****************************************************************************************************************/

// EquatorialCoordinateFromUnitVector is the inverse of ToUnitVector, recovering
// RA/Dec in degrees from a celestial-frame unit vector. It is used to render a
// winning candidate's catalog stars back into sky coordinates for display.
func EquatorialCoordinateFromUnitVector(u vector.Vec3) ICRSEquatorialCoordinate {
	dec := math.Asin(u.Z)
	ra := math.Atan2(u.Y, u.X)

	if ra < 0 {
		ra += 2 * math.Pi
	}

	return ICRSEquatorialCoordinate{
		RA:  ra * 180 / math.Pi,
		Dec: dec * 180 / math.Pi,
	}
}

/*****************************************************************************************************************/
