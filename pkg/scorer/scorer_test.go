/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package scorer

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/kdindex"
	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/vector"
	"gonum.org/v1/gonum/mat"
)

/*****************************************************************************************************************/

func identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

/*****************************************************************************************************************/

func testConfig() *config.Config {
	return config.Default()
}

/*****************************************************************************************************************/

func TestScoreIdentifiesExactMatch(t *testing.T) {
	cfg := testConfig()

	catalogStars := []star.Star{
		{ID: 1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000},
		{ID: 2, Idx: 1, U: vector.Vec3{X: 0.999, Y: 0.03, Z: 0}.Normalize(), Photons: 1000},
	}

	catalogTable := star.NewTable(catalogStars)
	catalogIndex := kdindex.Build(catalogStars)

	imgPx := float64(cfg.ImgW) / 2
	imgPy := float64(cfg.ImgH) / 2

	imageStars := []star.Star{
		{ID: -1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000, PX: imgPx, PY: imgPy, SigmaSq: 1},
	}

	imageTable := star.NewTable(imageStars)
	imageTable.BuildPixelMask(cfg.ImgW, cfg.ImgH, 5)

	candidate := Score(identity(), catalogIndex, catalogTable, imageTable, cfg, 0, 1, 0, -1)

	if candidate.IDMap[0] != 0 {
		t.Errorf("IDMap[0] = %d; want 0 (catalog star matched)", candidate.IDMap[0])
	}

	if math.IsInf(candidate.Total, -1) {
		t.Errorf("Total should not be -Inf for a matched candidate")
	}
}

/*****************************************************************************************************************/

func TestScoreLeavesUnmatchedImageStarAtMinusOne(t *testing.T) {
	cfg := testConfig()

	catalogStars := []star.Star{
		{ID: 1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000},
	}

	catalogTable := star.NewTable(catalogStars)
	catalogIndex := kdindex.Build(catalogStars)

	// An image star far off the catalog-projected neighborhood:
	imageStars := []star.Star{
		{ID: -1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000, PX: 10, PY: 10, SigmaSq: 1},
	}

	imageTable := star.NewTable(imageStars)
	imageTable.BuildPixelMask(cfg.ImgW, cfg.ImgH, 2)

	candidate := Score(identity(), catalogIndex, catalogTable, imageTable, cfg, 0, 0, 0, 0)

	if candidate.IDMap[0] != -1 {
		t.Errorf("IDMap[0] = %d; want -1 (no catalog star should explain a far-off detection)", candidate.IDMap[0])
	}
}

/*****************************************************************************************************************/

func TestScoreWinnerTakesAllPerImageStar(t *testing.T) {
	cfg := testConfig()

	imgPx := float64(cfg.ImgW) / 2
	imgPy := float64(cfg.ImgH) / 2

	// Two catalog stars that project to nearly the same pixel; only the
	// better-fitting one should claim the single image star.
	catalogStars := []star.Star{
		{ID: 1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000},
		{ID: 2, Idx: 1, U: vector.Vec3{X: 0.99999, Y: 0.001, Z: 0}.Normalize(), Photons: 1000},
	}

	catalogTable := star.NewTable(catalogStars)
	catalogIndex := kdindex.Build(catalogStars)

	imageStars := []star.Star{
		{ID: -1, Idx: 0, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 1000, PX: imgPx, PY: imgPy, SigmaSq: 1},
	}

	imageTable := star.NewTable(imageStars)
	imageTable.BuildPixelMask(cfg.ImgW, cfg.ImgH, 5)

	candidate := Score(identity(), catalogIndex, catalogTable, imageTable, cfg, 0, 1, 0, -1)

	claims := 0
	for _, id := range candidate.IDMap {
		if id != -1 {
			claims++
		}
	}

	if claims > 1 {
		t.Errorf("expected at most one catalog star to claim each image star, got %d claims", claims)
	}
}

/*****************************************************************************************************************/
