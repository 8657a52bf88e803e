/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package star

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/nyx-astro/startrack/pkg/vector"
)

/*****************************************************************************************************************/

func TestValidateRejectsNonUnitVector(t *testing.T) {
	s := Star{ID: 1, U: vector.Vec3{X: 2, Y: 0, Z: 0}}

	if err := s.Validate(); err == nil {
		t.Error("expected an error for a non-unit vector")
	}
}

/*****************************************************************************************************************/

func TestValidateRejectsNegativePhotons(t *testing.T) {
	s := Star{ID: 1, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: -1}

	if err := s.Validate(); err == nil {
		t.Error("expected an error for negative photons")
	}
}

/*****************************************************************************************************************/

func TestValidateAcceptsWellFormedStar(t *testing.T) {
	s := Star{ID: 1, U: vector.Vec3{X: 1, Y: 0, Z: 0}, Photons: 100, SigmaSq: 0.1}

	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

/*****************************************************************************************************************/

func TestAngularSeparationArcseconds(t *testing.T) {
	a := Star{U: vector.Vec3{X: 1, Y: 0, Z: 0}}
	b := Star{U: vector.Vec3{X: 0, Y: 1, Z: 0}}

	got := a.AngularSeparationArcseconds(b)
	want := 90.0 * 3600.0

	if math.Abs(got-want) > 1e-6 {
		t.Errorf("AngularSeparationArcseconds() = %f; want %f", got, want)
	}
}

/*****************************************************************************************************************/

func TestNewTableAssignsDenseIdxAndMaxVariance(t *testing.T) {
	stars := []Star{
		{ID: 10, SigmaSq: 0.2},
		{ID: 20, SigmaSq: 0.5},
		{ID: 30, SigmaSq: 0.1},
	}

	table := NewTable(stars)

	for i, s := range table.Stars {
		if s.Idx != i {
			t.Errorf("Stars[%d].Idx = %d; want %d", i, s.Idx, i)
		}
	}

	if table.MaxVariance != 0.5 {
		t.Errorf("MaxVariance = %f; want 0.5", table.MaxVariance)
	}
}

/*****************************************************************************************************************/

func TestBuildPixelMaskAssignsNearestStar(t *testing.T) {
	stars := []Star{
		{ID: 1, PX: 2, PY: 2},
		{ID: 2, PX: 8, PY: 8},
	}

	table := NewTable(stars)
	table.BuildPixelMask(10, 10, 3)

	if got := table.Lookup(2, 2); got != 0 {
		t.Errorf("Lookup(2,2) = %d; want 0", got)
	}

	if got := table.Lookup(8, 8); got != 1 {
		t.Errorf("Lookup(8,8) = %d; want 1", got)
	}

	if got := table.Lookup(5, 0); got != -1 {
		t.Errorf("Lookup(5,0) = %d; want -1 (out of radius)", got)
	}
}

/*****************************************************************************************************************/

func TestBuildPixelMaskOutOfBoundsLookup(t *testing.T) {
	table := NewTable([]Star{{ID: 1, PX: 2, PY: 2}})
	table.BuildPixelMask(10, 10, 3)

	if got := table.Lookup(-1, 0); got != -1 {
		t.Errorf("Lookup(-1,0) = %d; want -1", got)
	}

	if got := table.Lookup(100, 100); got != -1 {
		t.Errorf("Lookup(100,100) = %d; want -1", got)
	}
}

/*****************************************************************************************************************/
