/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package scorer grades a candidate rotation: it reprojects the catalog
// neighborhood around the camera boresight into the image plane and scores
// how well each reprojected catalog star explains an observed image star,
// using a Gaussian log-likelihood model. Each image star is claimed by at
// most one catalog star (winner-takes-all), so a candidate cannot inflate
// its score by letting two catalog stars double-count a single detection.
package scorer

/*****************************************************************************************************************/

import (
	"math"

	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/kdindex"
	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/vector"
	"gonum.org/v1/gonum/mat"
)

/*****************************************************************************************************************/

// Candidate is the result of scoring one (catalog pair, image pair,
// orientation) trial against a rotation.
type Candidate struct {
	DBID1, DBID2   int
	ImgID1, ImgID2 int

	// IDMap[n] is the catalog star Idx that candidate's rotation maps to
	// image star n, or -1 if no catalog star explains it.
	IDMap []int

	// Scores[n] is the log-likelihood contribution of image star n.
	Scores []float64

	// Total is the sum of Scores plus the background (false-detection)
	// prior term; candidates are ranked on Total.
	Total float64
}

/*****************************************************************************************************************/

// Score reprojects the catalog neighborhood around r's boresight into the
// image plane and grades the match against imageTable. dbID1/dbID2 and
// imgID1/imgID2 identify the anchor correspondence that produced r, and are
// carried through onto the returned Candidate for the matcher's posterior
// computation.
func Score(
	r *mat.Dense,
	catalogIndex *kdindex.Index,
	catalogTable *star.Table,
	imageTable *star.Table,
	cfg *config.Config,
	dbID1, dbID2, imgID1, imgID2 int,
) *Candidate {
	candidate := &Candidate{
		DBID1:  dbID1,
		DBID2:  dbID2,
		ImgID1: imgID1,
		ImgID2: imgID2,
		IDMap:  make([]int, len(imageTable.Stars)),
		Scores: make([]float64, len(imageTable.Stars)),
	}

	for i := range candidate.IDMap {
		candidate.IDMap[i] = -1
		candidate.Scores[i] = 0.0
	}

	axis := boresightInCatalogFrame(r)

	halfAngle := (cfg.MaxFOV / 2) * math.Pi / 180

	handle := catalogIndex.ConeSearch(axis, halfAngle, cfg.BrightThresh)
	defer handle.Undo()

	for _, o := range handle.Results() {
		u := catalogTable.Stars[o].U

		v := apply(r, u)
		if v.X <= 0 {
			continue
		}

		px := (v.Y/v.X)/cfg.PixXTangent + float64(imageTable.MaskWidth)/2
		py := (v.Z/v.X)/cfg.PixYTangent + float64(imageTable.MaskHeight)/2

		cx, cy, ok := clipToBorder(px, py, imageTable.MaskWidth, imageTable.MaskHeight)
		if !ok {
			continue
		}

		n := imageTable.Lookup(cx, cy)
		if n == -1 {
			continue
		}

		imgStar := imageTable.Stars[n]

		sigmaSq := imgStar.SigmaSq + catalogTable.MaxVariance
		if sigmaSq <= 0 {
			continue
		}

		maxD2 := -sigmaSq * (math.Log(sigmaSq) + cfg.MatchValue)
		dx := px - imgStar.PX
		dy := py - imgStar.PY
		d2 := dx*dx + dy*dy

		score := (maxD2 - d2) / (2 * sigmaSq)

		if score > 0 && score > candidate.Scores[n] {
			candidate.Scores[n] = score
			candidate.IDMap[n] = o
		}
	}

	total := 0.0
	for _, s := range candidate.Scores {
		total += s
	}

	nImg := len(imageTable.Stars)
	if cfg.ExpectedFalseStars > 0 && imageTable.MaskWidth > 0 && imageTable.MaskHeight > 0 {
		area := float64(imageTable.MaskWidth * imageTable.MaskHeight)
		total += math.Log(cfg.ExpectedFalseStars/area) * 2 * float64(nImg)
	}

	candidate.Total = total

	return candidate
}

/*****************************************************************************************************************/

// boresightInCatalogFrame returns the catalog-frame unit vector that r maps
// to the camera boresight (+x): since R is orthogonal, R^T*(1,0,0) is simply
// R's first row.
func boresightInCatalogFrame(r *mat.Dense) vector.Vec3 {
	return vector.Vec3{X: r.At(0, 0), Y: r.At(0, 1), Z: r.At(0, 2)}
}

/*****************************************************************************************************************/

func apply(r *mat.Dense, u vector.Vec3) vector.Vec3 {
	return vector.Vec3{
		X: r.At(0, 0)*u.X + r.At(0, 1)*u.Y + r.At(0, 2)*u.Z,
		Y: r.At(1, 0)*u.X + r.At(1, 1)*u.Y + r.At(1, 2)*u.Z,
		Z: r.At(2, 0)*u.X + r.At(2, 1)*u.Y + r.At(2, 2)*u.Z,
	}
}

/*****************************************************************************************************************/

// clipToBorder allows a one-pixel overshoot past the sensor border (rounding
// at the edge of the field should not discard an otherwise-valid star), but
// discards anything beyond that.
func clipToBorder(px, py float64, width, height int) (int, int, bool) {
	if px < -1 || py < -1 || px > float64(width) || py > float64(height) {
		return 0, 0, false
	}

	x := clampInt(int(math.Round(px)), 0, width-1)
	y := clampInt(int(math.Round(py)), 0, height-1)

	return x, y, true
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
