/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package star holds the single record type shared by the catalog and image
// sides of the matcher: a star's identity, its unit vector in whatever frame
// owns it (celestial for catalog stars, camera for image stars), its
// brightness, and (image-side only) its pixel position and positional
// variance.
package star

/*****************************************************************************************************************/

import (
	"fmt"

	"github.com/nyx-astro/startrack/pkg/geometry"
	"github.com/nyx-astro/startrack/pkg/vector"
)

/*****************************************************************************************************************/

type Star struct {
	ID        int64       // Stable catalog identifier; -1 for a not-yet-identified image star.
	Idx       int         // Dense, zero-based position within the owning StarTable.
	U         vector.Vec3 // Unit vector in the owning frame (celestial or camera).
	Photons   float64     // Brightness proxy, nonnegative.
	PX        float64     // Image-side pixel X; zero-value on the catalog side.
	PY        float64     // Image-side pixel Y; zero-value on the catalog side.
	SigmaSq   float64     // Image-side positional variance, in pixel^2; zero on the catalog side.
}

/*****************************************************************************************************************/

// Validate checks the invariants a Star is expected to uphold at every system
// boundary (§7): a unit vector within tolerance, and nonnegative brightness
// and variance. It does not mutate the star.
func (s Star) Validate() error {
	const unitTolerance = 1e-5

	if !s.U.IsUnit(unitTolerance) {
		return fmt.Errorf("star: id %d has non-unit vector (norm=%f)", s.ID, s.U.Norm())
	}

	if s.Photons < 0 {
		return fmt.Errorf("star: id %d has negative photon count (%f)", s.ID, s.Photons)
	}

	if s.SigmaSq < 0 {
		return fmt.Errorf("star: id %d has negative variance (%f)", s.ID, s.SigmaSq)
	}

	return nil
}

/*****************************************************************************************************************/

// AngularSeparationArcseconds returns the great-circle separation, in
// arcseconds, between two stars' unit vectors — regardless of which frame
// they belong to (catalog-catalog, image-image, or a mixed comparison used
// only in tests).
func (s Star) AngularSeparationArcseconds(o Star) float64 {
	return geometry.AngularSeparationArcseconds(s.U, o.U)
}

/*****************************************************************************************************************/

// PixelDistanceTo returns the Euclidean distance, in pixels, between two
// image-side stars. It is meaningless for catalog-side stars (PX/PY are
// zero-valued there).
func (s Star) PixelDistanceTo(o Star) float64 {
	return geometry.DistanceBetweenTwoCartesianPoints(s.PX, s.PY, o.PX, o.PY)
}

/*****************************************************************************************************************/

// Table is a dense, ordered collection of stars sharing one frame, plus the
// frame-wide worst-case variance used by the scorer's Gaussian model.
type Table struct {
	Stars       []Star
	MaxVariance float64

	// PixelMask holds, for each (y*Width+x) cell, the Idx of the nearest
	// image star within the pixel-mask radius, or -1. It is built lazily by
	// BuildPixelMask and is only meaningful for image-side tables.
	PixelMask   []int32
	MaskWidth   int
	MaskHeight  int
}

/*****************************************************************************************************************/

func NewTable(stars []Star) *Table {
	maxVariance := 0.0

	for i := range stars {
		stars[i].Idx = i
		if stars[i].SigmaSq > maxVariance {
			maxVariance = stars[i].SigmaSq
		}
	}

	return &Table{
		Stars:       stars,
		MaxVariance: maxVariance,
	}
}

/*****************************************************************************************************************/

// BuildPixelMask rasterizes the table's image-side stars into a width x
// height grid of nearest-star indices, used by the scorer for O(1)
// reverse-projection lookup. Each cell within maskRadius pixels of a star's
// center is claimed by that star, unless it is already closer to another.
func (t *Table) BuildPixelMask(width, height int, maskRadius float64) {
	mask := make([]int32, width*height)
	for i := range mask {
		mask[i] = -1
	}

	best := make([]float64, width*height)
	for i := range best {
		best[i] = maskRadius * maskRadius
	}

	for _, s := range t.Stars {
		xMin := clampInt(int(s.PX-maskRadius), 0, width-1)
		xMax := clampInt(int(s.PX+maskRadius), 0, width-1)
		yMin := clampInt(int(s.PY-maskRadius), 0, height-1)
		yMax := clampInt(int(s.PY+maskRadius), 0, height-1)

		for y := yMin; y <= yMax; y++ {
			for x := xMin; x <= xMax; x++ {
				dx := float64(x) - s.PX
				dy := float64(y) - s.PY
				d2 := dx*dx + dy*dy

				cell := y*width + x
				if d2 < best[cell] {
					best[cell] = d2
					mask[cell] = int32(s.Idx)
				}
			}
		}
	}

	t.PixelMask = mask
	t.MaskWidth = width
	t.MaskHeight = height
}

/*****************************************************************************************************************/

// Lookup returns the Idx of the star owning pixel (x,y), or -1 if none does
// or the coordinates fall outside the mask.
func (t *Table) Lookup(x, y int) int {
	if t.PixelMask == nil || x < 0 || y < 0 || x >= t.MaskWidth || y >= t.MaskHeight {
		return -1
	}

	return int(t.PixelMask[y*t.MaskWidth+x])
}

/*****************************************************************************************************************/

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

/*****************************************************************************************************************/
