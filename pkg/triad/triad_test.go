/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package triad

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/nyx-astro/startrack/pkg/vector"
	"gonum.org/v1/gonum/mat"
)

/*****************************************************************************************************************/

// rotateZ builds a known rotation matrix around the Z axis, used as ground
// truth for the round-trip test.
func rotateZ(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

/*****************************************************************************************************************/

func apply(r *mat.Dense, v vector.Vec3) vector.Vec3 {
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(r, in)
	return vector.Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

/*****************************************************************************************************************/

func frobeniusDiff(a, b *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(a, b)
	return mat.Norm(&diff, 2)
}

/*****************************************************************************************************************/

func TestSolveRecoversKnownRotation(t *testing.T) {
	truth := rotateZ(30 * math.Pi / 180)

	dbA := vector.Vec3{X: 1, Y: 0, Z: 0}
	dbB := vector.Vec3{X: 0, Y: 1, Z: 0}

	imgA := apply(truth, dbA)
	imgB := apply(truth, dbB)

	r, err := Solve(dbA, dbB, imgA, imgB, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := frobeniusDiff(r, truth); diff > 1e-6 {
		t.Errorf("Solve() frobenius diff = %f; want < 1e-6", diff)
	}
}

/*****************************************************************************************************************/

func TestSolveProducesOrthogonalRotation(t *testing.T) {
	truth := rotateZ(73 * math.Pi / 180)

	dbA := vector.Vec3{X: 1, Y: 0, Z: 0}
	dbB := vector.Vec3{X: 0, Y: 0, Z: 1}

	imgA := apply(truth, dbA)
	imgB := apply(truth, dbB)

	r, err := Solve(dbA, dbB, imgA, imgB, 0.5, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := checkOrthogonal(r); err != nil {
		t.Errorf("Solve() produced a non-orthogonal rotation: %v", err)
	}

	if mat.Det(r) <= 0 {
		t.Errorf("Solve() det(R) = %f; want > 0", mat.Det(r))
	}
}

/*****************************************************************************************************************/

func TestSolveRejectsParallelVectors(t *testing.T) {
	dbA := vector.Vec3{X: 1, Y: 0, Z: 0}
	dbB := vector.Vec3{X: 1, Y: 0, Z: 0}

	imgA := vector.Vec3{X: 1, Y: 0, Z: 0}
	imgB := vector.Vec3{X: 1, Y: 0, Z: 0}

	if _, err := Solve(dbA, dbB, imgA, imgB, 1, 1); err == nil {
		t.Error("expected an error for parallel star vectors")
	}
}

/*****************************************************************************************************************/

func TestFuseAngleAveragesNearZero(t *testing.T) {
	got := fuseAngle(0.1, 0.5, -0.1, 0.5)

	if math.Abs(got) > 1e-9 {
		t.Errorf("fuseAngle() = %f; want ~0", got)
	}
}

/*****************************************************************************************************************/

func TestFuseAngleHandlesWraparound(t *testing.T) {
	almostPi := math.Pi - 0.01
	negAlmostPi := -math.Pi + 0.01

	got := fuseAngle(almostPi, 0.5, negAlmostPi, 0.5)

	// The circular mean of two angles near +-pi should stay near +-pi, not
	// collapse towards 0 as a naive arithmetic mean would.
	if math.Abs(math.Abs(got)-math.Pi) > 0.05 {
		t.Errorf("fuseAngle() = %f; want near +-pi", got)
	}
}

/*****************************************************************************************************************/
