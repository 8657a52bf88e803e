/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package pair implements the constellation pair table: an unordered pair of
// star indices within one star.Table, tagged with their angular separation,
// sorted so that the separation-range lookup the matcher relies on can be
// answered with two binary searches instead of a scan.
package pair

/*****************************************************************************************************************/

import "sort"

/*****************************************************************************************************************/

// Pair records one constellation: two star indices (S1, S2, both within the
// same star.Table) and their angular separation P, in arcseconds. By
// convention S1 is the brighter of the two stars; ties break on the lower
// index. Idx is the pair's position after the table has been sorted.
type Pair struct {
	P   float64
	S1  int
	S2  int
	Idx int
}

/*****************************************************************************************************************/

// Table is a pair list sorted by P ascending.
type Table struct {
	Pairs []Pair
}

/*****************************************************************************************************************/

// NewTable sorts pairs by separation (stably, so pairs with equal separation
// keep their relative insertion order) and assigns dense Idx values.
func NewTable(pairs []Pair) *Table {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].P < pairs[j].P
	})

	for i := range pairs {
		pairs[i].Idx = i
	}

	return &Table{Pairs: pairs}
}

/*****************************************************************************************************************/

// Range returns the contiguous slice of pairs whose separation P falls within
// [lo, hi]. The returned slice aliases the table's backing array and must not
// be mutated by the caller.
func (t *Table) Range(lo, hi float64) []Pair {
	if lo > hi {
		lo, hi = hi, lo
	}

	start := sort.Search(len(t.Pairs), func(i int) bool {
		return t.Pairs[i].P >= lo
	})

	end := sort.Search(len(t.Pairs), func(i int) bool {
		return t.Pairs[i].P > hi
	})

	if start >= end {
		return nil
	}

	return t.Pairs[start:end]
}

/*****************************************************************************************************************/
