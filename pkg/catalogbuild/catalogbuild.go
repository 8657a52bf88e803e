/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package catalogbuild implements the catalog builder: it pulls raw stars
// from a catalog.CatalogSource, keeps a density-uniform sample (so no single
// field of view is starved of stars and no cluster dominates), and produces
// the immutable catalog-side star table, pair table, and angular neighbor
// index the matcher shares read-only across every frame.
package catalogbuild

/*****************************************************************************************************************/

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sort"

	"github.com/nyx-astro/startrack/pkg/astrometry"
	"github.com/nyx-astro/startrack/pkg/catalog"
	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/kdindex"
	"github.com/nyx-astro/startrack/pkg/matcher"
	"github.com/nyx-astro/startrack/pkg/pair"
	"github.com/nyx-astro/startrack/pkg/star"
)

/*****************************************************************************************************************/

// Build fetches every raw star within radiusDegrees of center, thins them to
// a density-uniform sample, and assembles the catalog bundle the matcher
// consumes.
func Build(
	ctx context.Context,
	source catalog.CatalogSource,
	center astrometry.ICRSEquatorialCoordinate,
	radiusDegrees float64,
	cfg *config.Config,
) (*matcher.CatalogBundle, error) {
	raw, err := source.RadialSearch(ctx, center, radiusDegrees)
	if err != nil {
		return nil, err
	}

	candidates := make([]star.Star, 0, len(raw))

	seen := make(map[int64]bool, len(raw))

	for _, r := range raw {
		if r.PhotometricGMeanFlux < cfg.BrightThresh {
			continue
		}

		id := stableID(r.ID)
		if seen[id] {
			return nil, errors.New("catalogbuild: duplicate catalog id after hashing")
		}
		seen[id] = true

		u := (astrometry.ICRSEquatorialCoordinate{RA: r.RA, Dec: r.Dec}).ToUnitVector()

		candidates = append(candidates, star.Star{
			ID:      id,
			U:       u,
			Photons: r.PhotometricGMeanFlux,
		})
	}

	if len(candidates) == 0 {
		return nil, errors.New("catalogbuild: no catalog stars survived the brightness filter")
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Photons > candidates[j].Photons
	})

	for i := range candidates {
		candidates[i].Idx = i
		if err := candidates[i].Validate(); err != nil {
			return nil, err
		}
	}

	index := kdindex.Build(candidates)

	neighborhoodRadius := cfg.MaxFOV * math.Pi / 180 // full diameter-scale neighborhood, in radians

	retained := make([]bool, len(candidates))

	for i := range candidates {
		h := index.ConeSearch(candidates[i].U, neighborhoodRadius, 0)
		count := 0
		for _, j := range h.Results() {
			if retained[j] {
				count++
			}
		}
		h.Undo()

		if count < cfg.RequiredStars {
			retained[i] = true
		}
	}

	kept := make([]star.Star, 0, len(candidates))
	for i, r := range retained {
		if r {
			kept = append(kept, candidates[i])
		}
	}

	if len(kept) < 2 {
		return nil, errors.New("catalogbuild: fewer than two stars survived density thinning")
	}

	table := star.NewTable(kept)
	finalIndex := kdindex.Build(table.Stars)

	pairs := buildPairs(table, finalIndex, neighborhoodRadius)

	return &matcher.CatalogBundle{
		Stars: table,
		Pairs: pair.NewTable(pairs),
		Index: finalIndex,
	}, nil
}

/*****************************************************************************************************************/

func buildPairs(table *star.Table, index *kdindex.Index, neighborhoodRadius float64) []pair.Pair {
	type key struct{ a, b int }

	seen := make(map[key]bool)
	pairs := make([]pair.Pair, 0, len(table.Stars)*4)

	for i, s := range table.Stars {
		h := index.ConeSearch(s.U, neighborhoodRadius, 0)

		for _, j := range h.Results() {
			if j == i {
				continue
			}

			other := table.Stars[j]
			if !brighterOrEqual(s, other) {
				continue
			}

			k := key{a: minInt(i, j), b: maxInt(i, j)}
			if seen[k] {
				continue
			}
			seen[k] = true

			pairs = append(pairs, pair.Pair{
				P:  s.AngularSeparationArcseconds(other),
				S1: i,
				S2: j,
			})
		}

		h.Undo()
	}

	return pairs
}

/*****************************************************************************************************************/

// brighterOrEqual reports whether a is the S1 (brighter) side of a pair
// against b, breaking brightness ties by lower Idx so that pair construction
// is deterministic regardless of iteration order.
func brighterOrEqual(a, b star.Star) bool {
	if a.Photons != b.Photons {
		return a.Photons > b.Photons
	}
	return a.Idx < b.Idx
}

/*****************************************************************************************************************/

func stableID(raw string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(raw))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

/*****************************************************************************************************************/

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

/*****************************************************************************************************************/

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

/*****************************************************************************************************************/
