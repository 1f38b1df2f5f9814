package quaternion

import (
	"errors"
	"fmt"
	"math"
)

const (
	slerpEpsilon       = 1e-6
	weightSumTolerance = 0.001
)

var (
	ErrWeightMismatch = errors.New("weights and quaternions differ in length")
	ErrNoQuaternions  = errors.New("no quaternions to interpolate")
	ErrWeightSum      = errors.New("weights must sum to 1")
	ErrNegativeWeight = errors.New("weights must be non-negative")
)

// Slerp interpolates from a (alpha = 0) to b (alpha = 1) along the
// shorter arc. spin adds that many half-turns to the path.
func Slerp(alpha float64, a, b Quaternion, spin int) Quaternion {
	cosTheta := a.Dot(b)

	// take the shorter arc
	flip := cosTheta < 0
	if flip {
		cosTheta = -cosTheta
	}

	var beta float64
	if 1-cosTheta < slerpEpsilon {
		// nearly parallel, fall back to linear blending
		beta = 1 - alpha
	} else {
		theta := math.Acos(cosTheta)
		phi := theta + float64(spin)*math.Pi
		sinTheta := math.Sin(theta)
		beta = math.Sin(theta-alpha*phi) / sinTheta
		alpha = math.Sin(alpha*phi) / sinTheta
	}

	if flip {
		alpha = -alpha
	}
	return a.Scale(beta).Add(b.Scale(alpha))
}

// SlerpN blends quaternions with weights summing to 1, the spherical
// analog of w[0]*q[0] + ... + w[n-1]*q[n-1]
func SlerpN(weights []float64, quats []Quaternion, spin int) (Quaternion, error) {
	if len(weights) != len(quats) {
		return Quaternion{}, fmt.Errorf("%d weights for %d quaternions: %w", len(weights), len(quats), ErrWeightMismatch)
	}
	if len(quats) == 0 {
		return Quaternion{}, ErrNoQuaternions
	}
	if len(quats) == 1 {
		return quats[0], nil
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return Quaternion{}, fmt.Errorf("sum is %g: %w", sum, ErrWeightSum)
	}

	return slerpN(weights, quats, spin)
}

func slerpN(weights []float64, quats []Quaternion, spin int) (Quaternion, error) {
	n := len(quats)
	switch n {
	case 1:
		return quats[0], nil
	case 2:
		if weights[0] < 0 || weights[1] < 0 {
			return Quaternion{}, ErrNegativeWeight
		}
		return Slerp(weights[1], quats[0], quats[1], spin), nil
	}

	last := weights[n-1]
	head := 1 - last
	if head == 0 {
		return quats[n-1], nil
	}

	scaled := make([]float64, n-1)
	for i := range scaled {
		scaled[i] = weights[i] / head
	}
	partial, err := slerpN(scaled, quats[:n-1], spin)
	if err != nil {
		return Quaternion{}, err
	}
	return Slerp(last, partial, quats[n-1], spin), nil
}
