/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package imagebuild wraps a centroider's detected image stars into the
// per-frame ImageBundle the matcher consumes: a brightness-sorted star
// table and its pair table. Centroiding itself (thresholding, sub-pixel
// refinement) is out of core; this package's input is already a centroided
// star list.
package imagebuild

/*****************************************************************************************************************/

import (
	"errors"
	"sort"

	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/geometry"
	"github.com/nyx-astro/startrack/pkg/matcher"
	"github.com/nyx-astro/startrack/pkg/pair"
	"github.com/nyx-astro/startrack/pkg/star"
)

/*****************************************************************************************************************/

// DetectedStar is what a centroider collaborator yields for one detection.
type DetectedStar struct {
	PX      float64 `json:"px"`
	PY      float64 `json:"py"`
	Photons float64 `json:"photons"`
	SigmaSq float64 `json:"sigmaSq"`
}

/*****************************************************************************************************************/

// Build converts a centroider's detection list into an ImageBundle: the full
// set of detections, sorted by descending brightness with unit vectors
// derived from pixel position via the tangent-plane projection, and the pair
// table formed from only the brightest min(N, RequiredStars+MaxFalseStars)
// of them. Every detection keeps a slot in the returned star table (and so in
// the matcher's WinnerIDMap/WinnerScores) even when it falls outside the
// pairing cap; only pair generation is bounded.
func Build(cfg *config.Config, detections []DetectedStar) (*matcher.ImageBundle, error) {
	if len(detections) == 0 {
		return nil, errors.New("imagebuild: no detections supplied")
	}

	sorted := append([]DetectedStar(nil), detections...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Photons > sorted[j].Photons
	})

	stars := make([]star.Star, len(sorted))
	for i, d := range sorted {
		u := geometry.UnitVectorFromPixel(d.PX, d.PY, float64(cfg.ImgW), float64(cfg.ImgH), cfg.PixXTangent, cfg.PixYTangent)

		stars[i] = star.Star{
			ID:      -1,
			U:       u,
			Photons: d.Photons,
			PX:      d.PX,
			PY:      d.PY,
			SigmaSq: d.SigmaSq,
		}

		if err := stars[i].Validate(); err != nil {
			return nil, err
		}
	}

	table := star.NewTable(stars)

	limit := cfg.RequiredStars + cfg.MaxFalseStars
	if limit > len(table.Stars) {
		limit = len(table.Stars)
	}

	pairs := make([]pair.Pair, 0, limit*(limit-1)/2)
	for i := 0; i < limit; i++ {
		for j := i + 1; j < limit; j++ {
			pairs = append(pairs, pair.Pair{
				P:  table.Stars[i].AngularSeparationArcseconds(table.Stars[j]),
				S1: i,
				S2: j,
			})
		}
	}

	return &matcher.ImageBundle{
		Stars: table,
		Pairs: pair.NewTable(pairs),
	}, nil
}

/*****************************************************************************************************************/
