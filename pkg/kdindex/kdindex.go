/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package kdindex implements the angular neighbor index: a vantage-point
// tree over catalog star unit vectors supporting cone searches (every star
// within a half-angle of an axis, above a brightness cutoff). This is the
// same triangle-inequality-pruning spatial index the teacher's pkg/spatial
// wraps for quad matching (gonum.org/v1/gonum/spatial/vptree), retargeted
// from Cartesian quad-invariant points to celestial unit vectors, and
// wrapped in a reentrant ConeSearch/Undo contract: the catalog builder and
// the candidate scorer both run cone searches that may nest (a search
// issued while iterating the results of another), so every call must own
// its own scratch result buffer rather than writing into shared tree state.
//
// The tree is built once over an immutable star table and never mutated
// afterwards; concurrent ConeSearch calls are therefore safe as long as each
// checks out its own scratch result buffer, which ConeSearch guarantees by
// drawing from a sync.Pool.
package kdindex

/*****************************************************************************************************************/

import (
	"math"
	"sync"

	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/vector"
	"gonum.org/v1/gonum/spatial/vptree"
)

/*****************************************************************************************************************/

// leaf is the vptree.Comparable wrapping one star's unit vector. The tree's
// metric is Euclidean chord distance between unit vectors rather than
// great-circle angle: it is a true metric (satisfies the triangle
// inequality vptree's pruning relies on) and is monotonic in angle, so a
// chord-distance radius is a direct, order-preserving stand-in for an
// angular half-angle (see chordRadius below) without paying an acos per
// comparison during tree construction.
type leaf struct {
	starIdx int
	u       vector.Vec3
}

/*****************************************************************************************************************/

func (a leaf) Distance(c vptree.Comparable) float64 {
	b := c.(leaf)

	dx := a.u.X - b.u.X
	dy := a.u.Y - b.u.Y
	dz := a.u.Z - b.u.Z

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

/*****************************************************************************************************************/

// Index is a read-only vantage-point tree over a star.Table's unit vectors.
// Construct with Build.
type Index struct {
	stars []star.Star
	tree  *vptree.Tree

	pool sync.Pool
}

/*****************************************************************************************************************/

// Build constructs a vantage-point tree over stars. stars is retained by
// reference (not copied) — callers must not mutate it afterwards.
func Build(stars []star.Star) *Index {
	idx := &Index{stars: stars}

	idx.pool.New = func() any {
		buf := make([]int, 0, 64)
		return &buf
	}

	if len(stars) == 0 {
		return idx
	}

	leaves := make(vptree.Comparables, len(stars))
	for i, s := range stars {
		leaves[i] = leaf{starIdx: i, u: s.U}
	}

	// effort=1 is the minimal, single-pass vantage-point selection; the
	// catalog sizes this engine targets (hundreds to low thousands of
	// stars) don't warrant paying for a higher-effort build.
	tree, err := vptree.New(leaves, 1, nil)
	if err == nil {
		idx.tree = tree
	}

	return idx
}

/*****************************************************************************************************************/

// Handle is an in-flight or completed cone search. Results holds the
// matching star indices; callers MUST call Undo when finished so the
// underlying buffer is returned to the pool.
type Handle struct {
	idx     *Index
	buf     *[]int
	results []int
}

/*****************************************************************************************************************/

// Results returns the star indices found by the search, nearest-to-axis
// first.
func (h *Handle) Results() []int {
	return h.results
}

/*****************************************************************************************************************/

// Undo returns the handle's scratch buffer to the index's pool. After Undo,
// the Handle's Results slice must not be read.
func (h *Handle) Undo() {
	*h.buf = (*h.buf)[:0]
	h.idx.pool.Put(h.buf)
	h.results = nil
}

/*****************************************************************************************************************/

// ConeSearch returns every star whose unit vector lies within halfAngleRadians
// of axis (axis need not be unit-norm; it is normalized internally) and whose
// Photons is at least brightnessCutoff. The search may be called reentrantly,
// including from inside the iteration of another search's results, because
// each call owns its own buffer.
func (idx *Index) ConeSearch(axis vector.Vec3, halfAngleRadians, brightnessCutoff float64) *Handle {
	buf := idx.pool.Get().(*[]int)
	*buf = (*buf)[:0]

	if idx.tree != nil {
		a := axis.Normalize()

		keeper := vptree.NewDistKeeper(chordRadius(halfAngleRadians))
		idx.tree.NearestSet(keeper, leaf{u: a})

		for _, cd := range keeper.Heap {
			l := cd.Comparable.(leaf)

			if idx.stars[l.starIdx].Photons >= brightnessCutoff {
				*buf = append(*buf, l.starIdx)
			}
		}
	}

	return &Handle{idx: idx, buf: buf, results: *buf}
}

/*****************************************************************************************************************/

// chordRadius converts an angular half-angle into the equivalent Euclidean
// chord-distance radius between two unit vectors: |a-b| = 2*sin(theta/2).
func chordRadius(halfAngleRadians float64) float64 {
	return 2 * math.Sin(halfAngleRadians/2)
}

/*****************************************************************************************************************/
