/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package triad implements the weighted TRIAD attitude solver: given two
// matched star correspondences (catalog unit vector + image unit vector,
// each pair), it recovers the rotation R such that R*w ≈ v for every catalog
// vector w and its corresponding image vector v.
//
// A single TRIAD solution is biased towards its primary vector; this package
// computes two TRIAD solutions (one anchored on each of the two stars) and
// fuses them in Euler-angle (ZYX) space, weighted by each correspondence's
// combined variance, which is the same bias-correction the original
// reference implementation applies.
package triad

/*****************************************************************************************************************/

import (
	"errors"
	"math"

	"github.com/nyx-astro/startrack/pkg/vector"
	"gonum.org/v1/gonum/mat"
)

/*****************************************************************************************************************/

var (
	// ErrDegenerateGeometry is returned when the two star vectors on either
	// side are too close to parallel to form a numerically stable TRIAD
	// basis.
	ErrDegenerateGeometry = errors.New("triad: degenerate (near-parallel) star pair")

	// ErrNonOrthogonal is returned when the fused rotation fails the
	// orthogonality or determinant check, which should only happen if the
	// inputs violate the unit-vector invariant.
	ErrNonOrthogonal = errors.New("triad: fused rotation failed orthogonality check")
)

/*****************************************************************************************************************/

const (
	minCrossNorm        = 1e-9
	orthogonalityTol    = 1e-4
)

/*****************************************************************************************************************/

// Solve computes the weighted TRIAD rotation from two star correspondences.
// dbA/dbB are catalog-frame unit vectors, imgA/imgB are camera-frame unit
// vectors, and sigmaSqA/sigmaSqB are each correspondence's combined variance
// (catalog + image), used to weight the two single-anchor TRIAD estimates.
func Solve(dbA, dbB, imgA, imgB vector.Vec3, sigmaSqA, sigmaSqB float64) (*mat.Dense, error) {
	rA, err := basic(dbA, dbB, imgA, imgB)
	if err != nil {
		return nil, err
	}

	rB, err := basic(dbB, dbA, imgB, imgA)
	if err != nil {
		return nil, err
	}

	weightA := 1.0
	weightB := 1.0

	if sigmaSqA+sigmaSqB > 0 {
		weightA = 1 / sigmaSqA
		weightB = 1 / sigmaSqB

		if math.IsInf(weightA, 0) {
			weightA = 1e12
		}
		if math.IsInf(weightB, 0) {
			weightB = 1e12
		}

		total := weightA + weightB
		weightA /= total
		weightB /= total
	} else {
		weightA, weightB = 0.5, 0.5
	}

	eulerA := toEulerZYX(rA)
	eulerB := toEulerZYX(rB)

	fused := [3]float64{
		fuseAngle(eulerA[0], weightA, eulerB[0], weightB),
		fuseAngle(eulerA[1], weightA, eulerB[1], weightB),
		fuseAngle(eulerA[2], weightA, eulerB[2], weightB),
	}

	r := fromEulerZYX(fused)

	if err := checkOrthogonal(r); err != nil {
		return nil, err
	}

	return r, nil
}

/*****************************************************************************************************************/

// basic computes a single TRIAD rotation anchored on the primary pair
// (primaryW, primaryV), using (secondaryW, secondaryV) to complete the basis.
func basic(primaryW, secondaryW, primaryV, secondaryV vector.Vec3) (*mat.Dense, error) {
	wCross := primaryW.Cross(secondaryW)
	vCross := primaryV.Cross(secondaryV)

	if wCross.Norm() < minCrossNorm || vCross.Norm() < minCrossNorm {
		return nil, ErrDegenerateGeometry
	}

	r1 := primaryW
	r2 := wCross.Normalize()
	r3 := r1.Cross(r2)

	s1 := primaryV
	s2 := vCross.Normalize()
	s3 := s1.Cross(s2)

	// M_db has columns r1,r2,r3; M_img has columns s1,s2,s3.
	// R = M_img * M_db^T, so that R*r1 = s1, R*r2 = s2, R*r3 = s3.
	mDB := mat.NewDense(3, 3, []float64{
		r1.X, r2.X, r3.X,
		r1.Y, r2.Y, r3.Y,
		r1.Z, r2.Z, r3.Z,
	})

	mImg := mat.NewDense(3, 3, []float64{
		s1.X, s2.X, s3.X,
		s1.Y, s2.Y, s3.Y,
		s1.Z, s2.Z, s3.Z,
	})

	var r mat.Dense
	r.Mul(mImg, mDB.T())

	return &r, nil
}

/*****************************************************************************************************************/

// toEulerZYX decodes a rotation matrix into ZYX (yaw, pitch, roll) Euler
// angles, in radians.
func toEulerZYX(r *mat.Dense) [3]float64 {
	r20 := r.At(2, 0)

	pitch := math.Asin(-clamp(r20, -1, 1))

	var yaw, roll float64

	if math.Abs(r20) < 0.999999 {
		yaw = math.Atan2(r.At(1, 0), r.At(0, 0))
		roll = math.Atan2(r.At(2, 1), r.At(2, 2))
	} else {
		// Gimbal lock: yaw and roll become degenerate; fold all rotation
		// about the vertical axis into yaw and leave roll at zero.
		yaw = math.Atan2(-r.At(0, 1), r.At(1, 1))
		roll = 0
	}

	return [3]float64{yaw, pitch, roll}
}

/*****************************************************************************************************************/

// fromEulerZYX is the inverse of toEulerZYX.
func fromEulerZYX(e [3]float64) *mat.Dense {
	yaw, pitch, roll := e[0], e[1], e[2]

	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cr, sr := math.Cos(roll), math.Sin(roll)

	rz := mat.NewDense(3, 3, []float64{
		cy, -sy, 0,
		sy, cy, 0,
		0, 0, 1,
	})

	ry := mat.NewDense(3, 3, []float64{
		cp, 0, sp,
		0, 1, 0,
		-sp, 0, cp,
	})

	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cr, -sr,
		0, sr, cr,
	})

	var zy, r mat.Dense
	zy.Mul(rz, ry)
	r.Mul(&zy, rx)

	return &r
}

/*****************************************************************************************************************/

// fuseAngle combines two angles (radians) via weighted averaging in
// cos/sin space, avoiding the wraparound error a plain weighted mean of the
// raw angles would introduce near +-pi.
func fuseAngle(a float64, wa float64, b float64, wb float64) float64 {
	c := wa*math.Cos(a) + wb*math.Cos(b)
	s := wa*math.Sin(a) + wb*math.Sin(b)
	return math.Atan2(s, c)
}

/*****************************************************************************************************************/

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

/*****************************************************************************************************************/

// checkOrthogonal verifies R*R^T is within tolerance of the identity and that
// det(R) > 0, per the solver's numerical-tolerance invariant.
func checkOrthogonal(r *mat.Dense) error {
	var rt mat.Dense
	rt.CloneFrom(r.T())

	var product mat.Dense
	product.Mul(r, &rt)

	maxDiff := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			expected := 0.0
			if i == j {
				expected = 1.0
			}
			diff := math.Abs(product.At(i, j) - expected)
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}

	if maxDiff > orthogonalityTol {
		return ErrNonOrthogonal
	}

	if mat.Det(r) <= 0 {
		return ErrNonOrthogonal
	}

	return nil
}

/*****************************************************************************************************************/
