/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package matcher implements the hypothesis ranker: it walks the image's
// pair table, looks up catalog pairs within a separation tolerance, solves
// and scores both orientations of every candidate correspondence, and
// combines the resulting log-likelihoods into a winning rotation and a
// Bayesian posterior match confidence.
//
// A Matcher instance is single-shot, modeled as an explicit state machine
// (Init -> Scored -> Ranked -> Consumed) rather than exposed transition
// methods: every exported method checks the current state and returns an
// error on out-of-order use.
package matcher

/*****************************************************************************************************************/

import (
	"errors"
	"math"
	"sort"

	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/kdindex"
	"github.com/nyx-astro/startrack/pkg/pair"
	"github.com/nyx-astro/startrack/pkg/scorer"
	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/triad"
)

/*****************************************************************************************************************/

var ErrOutOfOrder = errors.New("matcher: method called out of state-machine order")

/*****************************************************************************************************************/

// CatalogBundle is the immutable, process-wide-shared catalog-side state: a
// star table, its pair table, and the angular neighbor index built over it.
type CatalogBundle struct {
	Stars *star.Table
	Pairs *pair.Table
	Index *kdindex.Index
}

/*****************************************************************************************************************/

// ImageBundle is the per-frame, exclusively-owned image-side state.
type ImageBundle struct {
	Stars *star.Table
	Pairs *pair.Table
}

/*****************************************************************************************************************/

// MatchResult is the final, consumer-facing output of a match.
type MatchResult struct {
	Rotation [3][3]float64

	// WinnerIDMap[n] is the catalog star ID matched to image star Idx n, or
	// -1 if unidentified.
	WinnerIDMap []int64

	// WinnerScores[n] is the log-likelihood contribution of image star n
	// under the winning candidate.
	WinnerScores []float64

	PMatch float64
}

/*****************************************************************************************************************/

type state int

/*****************************************************************************************************************/

const (
	stateInit state = iota
	stateScored
	stateRanked
	stateConsumed
)

/*****************************************************************************************************************/

type Matcher struct {
	cfg     *config.Config
	catalog *CatalogBundle
	image   *ImageBundle

	candidates []*scorer.Candidate
	state      state
}

/*****************************************************************************************************************/

func New(cfg *config.Config, catalog *CatalogBundle, image *ImageBundle) *Matcher {
	return &Matcher{cfg: cfg, catalog: catalog, image: image}
}

/*****************************************************************************************************************/

// Score enumerates every (image pair, catalog pair, orientation) trial within
// tolerance, solves TRIAD, and scores each resulting candidate. If either
// side has fewer than two stars, it leaves the candidate set empty, which
// Result() later reports as a null match.
func (m *Matcher) Score() error {
	if m.state != stateInit {
		return ErrOutOfOrder
	}

	if len(m.catalog.Stars.Stars) < 2 || len(m.image.Stars.Stars) < 2 {
		m.state = stateScored
		return nil
	}

	m.image.Stars.BuildPixelMask(m.cfg.ImgW, m.cfg.ImgH, maskRadius(m.catalog.Stars.MaxVariance))

	estimate := len(m.image.Pairs.Pairs) * 4
	if estimate < 16 {
		estimate = 16
	}

	candidates := make([]*scorer.Candidate, 0, estimate)

	for _, q := range m.image.Pairs.Pairs {
		imgS1 := m.image.Stars.Stars[q.S1]
		imgS2 := m.image.Stars.Stars[q.S2]

		delta := tolerance(m.cfg, imgS1.SigmaSq, imgS2.SigmaSq, m.catalog.Stars.MaxVariance)

		for _, r := range m.catalog.Pairs.Range(q.P-delta, q.P+delta) {
			dbS1 := m.catalog.Stars.Stars[r.S1]
			dbS2 := m.catalog.Stars.Stars[r.S2]

			candidates = appendCandidate(candidates, m, dbS1, dbS2, imgS1, imgS2, r.S1, r.S2, q.S1, q.S2)
			candidates = appendCandidate(candidates, m, dbS1, dbS2, imgS2, imgS1, r.S1, r.S2, q.S2, q.S1)
		}
	}

	m.candidates = candidates
	m.state = stateScored

	return nil
}

/*****************************************************************************************************************/

func appendCandidate(
	candidates []*scorer.Candidate,
	m *Matcher,
	dbS1, dbS2, imgS1, imgS2 star.Star,
	dbIdx1, dbIdx2, imgIdx1, imgIdx2 int,
) []*scorer.Candidate {
	sigmaSqA := dbS1.SigmaSq + imgS1.SigmaSq
	sigmaSqB := dbS2.SigmaSq + imgS2.SigmaSq

	r, err := triad.Solve(dbS1.U, dbS2.U, imgS1.U, imgS2.U, sigmaSqA, sigmaSqB)
	if err != nil {
		return candidates
	}

	c := scorer.Score(r, m.catalog.Index, m.catalog.Stars, m.image.Stars, m.cfg, dbIdx1, dbIdx2, imgIdx1, imgIdx2)

	return append(candidates, c)
}

/*****************************************************************************************************************/

func tolerance(cfg *config.Config, sigmaSqS1, sigmaSqS2, catalogMaxVariance float64) float64 {
	return cfg.PosErrSigma * cfg.PixScale * math.Sqrt(sigmaSqS1+sigmaSqS2+2*catalogMaxVariance)
}

/*****************************************************************************************************************/

func maskRadius(catalogMaxVariance float64) float64 {
	r := 3 * math.Sqrt(catalogMaxVariance)
	if r < 2 {
		return 2
	}
	return r
}

/*****************************************************************************************************************/

// Rank sorts the scored candidates by Total descending, best first.
func (m *Matcher) Rank() error {
	if m.state != stateScored {
		return ErrOutOfOrder
	}

	sort.Slice(m.candidates, func(i, j int) bool {
		return m.candidates[i].Total > m.candidates[j].Total
	})

	m.state = stateRanked

	return nil
}

/*****************************************************************************************************************/

// Result computes the winning rotation and Bayesian posterior, consuming the
// matcher. After Result returns, the matcher must not be used again.
func (m *Matcher) Result() (*MatchResult, error) {
	if m.state != stateRanked {
		return nil, ErrOutOfOrder
	}

	m.state = stateConsumed

	n := len(m.image.Stars.Stars)

	result := &MatchResult{
		WinnerIDMap:  make([]int64, n),
		WinnerScores: make([]float64, n),
		PMatch:       0,
	}

	for i := range result.WinnerIDMap {
		result.WinnerIDMap[i] = -1
		result.WinnerScores[i] = 0
	}

	if len(m.candidates) == 0 {
		return result, nil
	}

	best := m.candidates[0]

	for n, dbIdx := range best.IDMap {
		if dbIdx == -1 {
			continue
		}
		result.WinnerIDMap[n] = m.catalog.Stars.Stars[dbIdx].ID
		result.WinnerScores[n] = best.Scores[n]
	}

	r, err := triad.Solve(
		m.catalog.Stars.Stars[best.DBID1].U,
		m.catalog.Stars.Stars[best.DBID2].U,
		m.image.Stars.Stars[best.ImgID1].U,
		m.image.Stars.Stars[best.ImgID2].U,
		m.catalog.Stars.Stars[best.DBID1].SigmaSq+m.image.Stars.Stars[best.ImgID1].SigmaSq,
		m.catalog.Stars.Stars[best.DBID2].SigmaSq+m.image.Stars.Stars[best.ImgID2].SigmaSq,
	)
	if err == nil {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				result.Rotation[i][j] = r.At(i, j)
			}
		}
	}

	z := 1.0

	for _, c := range m.candidates[1:] {
		if disjointFromWinner(c, best) {
			z += math.Exp(c.Total - best.Total)
		}
	}

	result.PMatch = 1 / z

	return result, nil
}

/*****************************************************************************************************************/

// disjointFromWinner implements the spec's AND-exclusion rule: a competing
// hypothesis only counts as independent evidence against the winner if it
// reassigns BOTH of the winner's anchor stars to different catalog stars.
// A hypothesis that agrees with the winner on even one anchor is treated as
// corroborating, not competing, and is excluded from the posterior
// denominator. See DESIGN.md for why this is kept as AND rather than
// changed to OR.
func disjointFromWinner(c, best *scorer.Candidate) bool {
	return c.IDMap[best.ImgID1] != best.DBID1 && c.IDMap[best.ImgID2] != best.DBID2
}

/*****************************************************************************************************************/

// Match runs a Matcher through its full Score -> Rank -> Result lifecycle in
// one call, for the common case where a caller has no need to inspect
// intermediate state.
func Match(cfg *config.Config, catalog *CatalogBundle, image *ImageBundle) (*MatchResult, error) {
	m := New(cfg, catalog, image)

	if err := m.Score(); err != nil {
		return nil, err
	}

	if err := m.Rank(); err != nil {
		return nil, err
	}

	return m.Result()
}

/*****************************************************************************************************************/
