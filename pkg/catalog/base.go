/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/nyx-astro/startrack/pkg/astrometry"
)

/*****************************************************************************************************************/

// RawSource is what a catalog source collaborator yields: a single star, as
// reported by whatever upstream service or file ingests it, before it has
// been converted into the engine's internal star table representation.
// Proper-motion correction, cross-matching, and network transport are out of
// core and are the responsibility of the CatalogSource implementation, not
// this package.
type RawSource struct {
	ID                   string  `json:"id"`
	Designation          string  `json:"designation"`
	RA                   float64 `json:"ra"`        // degrees, ICRS
	Dec                  float64 `json:"dec"`       // degrees, ICRS
	PhotometricGMeanFlux float64 `json:"flux"`      // e-/s, used as the Photons proxy
	Magnitude            float64 `json:"magnitude"` // mag, informational only
}

/*****************************************************************************************************************/

// CatalogSource is the external collaborator boundary: anything that can
// yield raw stars within a cone on the sky. Production implementations
// (GAIA/SIMBAD TAP clients, local FITS/CSV readers) live outside this module;
// only the contract and an in-memory implementation for tests/CLI use live
// here.
type CatalogSource interface {
	RadialSearch(ctx context.Context, center astrometry.ICRSEquatorialCoordinate, radiusDegrees float64) ([]RawSource, error)
}

/*****************************************************************************************************************/

// StaticSource is a CatalogSource backed by an in-memory slice, used by the
// CLI's "catalog build" command when reading a pre-fetched JSON star list,
// and by tests that need a deterministic, network-free source.
type StaticSource struct {
	Sources []RawSource
}

/*****************************************************************************************************************/

func NewStaticSource(sources []RawSource) *StaticSource {
	return &StaticSource{Sources: sources}
}

/*****************************************************************************************************************/

// RadialSearch returns every source within radiusDegrees of center, nearest
// first. It performs a plain linear scan; StaticSource is intended for small,
// pre-filtered lists rather than full-catalog search.
func (s *StaticSource) RadialSearch(
	_ context.Context,
	center astrometry.ICRSEquatorialCoordinate,
	radiusDegrees float64,
) ([]RawSource, error) {
	if radiusDegrees <= 0 {
		return nil, errors.New("catalog: radius must be positive")
	}

	axis := center.ToUnitVector()

	type scored struct {
		source RawSource
		cos    float64
	}

	cosRadius := math.Cos(radiusDegrees * math.Pi / 180)

	matches := make([]scored, 0, len(s.Sources))

	for _, source := range s.Sources {
		u := (astrometry.ICRSEquatorialCoordinate{RA: source.RA, Dec: source.Dec}).ToUnitVector()
		c := axis.Dot(u)
		if c >= cosRadius {
			matches = append(matches, scored{source: source, cos: c})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].cos > matches[j].cos
	})

	results := make([]RawSource, len(matches))
	for i, m := range matches {
		results[i] = m.source
	}

	return results, nil
}

/*****************************************************************************************************************/
