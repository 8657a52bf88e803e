/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package kdindex

/*****************************************************************************************************************/

import (
	"math"
	"sort"
	"testing"

	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/vector"
)

/*****************************************************************************************************************/

func testStars() []star.Star {
	return []star.Star{
		{ID: 1, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 100},
		{ID: 2, U: vector.Vec3{X: 0, Y: 1, Z: 0}, Photons: 100},
		{ID: 3, U: vector.Vec3{X: 0, Y: 0, Z: 1}, Photons: 100},
		{ID: 4, U: vector.Vec3{X: -1, Y: 0, Z: 0}, Photons: 100},
		{ID: 5, U: vector.Vec3{X: 0.9998, Y: 0.02, Z: 0}.Normalize(), Photons: 50},
	}
}

/*****************************************************************************************************************/

func idsOf(idx *Index, results []int) []int64 {
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = idx.stars[r].ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

/*****************************************************************************************************************/

func TestConeSearchFindsStarsWithinHalfAngle(t *testing.T) {
	idx := Build(testStars())

	h := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, 5*math.Pi/180, 0)
	defer h.Undo()

	ids := idsOf(idx, h.Results())

	if len(ids) != 2 || ids[0] != 1 || ids[1] != 5 {
		t.Errorf("ConeSearch() ids = %v; want [1 5]", ids)
	}
}

/*****************************************************************************************************************/

func TestConeSearchRespectsBrightnessCutoff(t *testing.T) {
	idx := Build(testStars())

	h := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, 5*math.Pi/180, 75)
	defer h.Undo()

	ids := idsOf(idx, h.Results())

	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("ConeSearch() ids = %v; want [1]", ids)
	}
}

/*****************************************************************************************************************/

func TestConeSearchWideAngleFindsAll(t *testing.T) {
	idx := Build(testStars())

	h := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, math.Pi, 0)
	defer h.Undo()

	if len(h.Results()) != len(testStars()) {
		t.Errorf("ConeSearch() found %d stars; want %d", len(h.Results()), len(testStars()))
	}
}

/*****************************************************************************************************************/

func TestConeSearchIsIdempotentAfterUndo(t *testing.T) {
	idx := Build(testStars())

	h1 := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, 5*math.Pi/180, 0)
	first := append([]int(nil), h1.Results()...)
	h1.Undo()

	h2 := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, 5*math.Pi/180, 0)
	second := h2.Results()
	h2.Undo()

	if len(first) != len(second) {
		t.Fatalf("result length changed after Undo: %d vs %d", len(first), len(second))
	}

	sort.Ints(first)
	sortedSecond := append([]int(nil), second...)
	sort.Ints(sortedSecond)

	for i := range first {
		if first[i] != sortedSecond[i] {
			t.Errorf("result sets differ after Undo: %v vs %v", first, sortedSecond)
		}
	}
}

/*****************************************************************************************************************/

func TestConeSearchIsReentrant(t *testing.T) {
	idx := Build(testStars())

	outer := idx.ConeSearch(vector.Vec3{X: 1, Y: 0, Z: 0}, math.Pi, 0)
	defer outer.Undo()

	for _, r := range outer.Results() {
		axis := idx.stars[r].U
		inner := idx.ConeSearch(axis, 1*math.Pi/180, 0)
		if len(inner.Results()) == 0 {
			t.Errorf("nested ConeSearch() found no stars for axis %+v", axis)
		}
		inner.Undo()
	}
}

/*****************************************************************************************************************/
