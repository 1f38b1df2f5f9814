package vector

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DistanceType selects the metric used by Distance
type DistanceType int

const (
	L1 DistanceType = iota
	L2
	L2Squared
	LInf
)

// String returns the metric name
func (d DistanceType) String() string {
	switch d {
	case L1:
		return "L1"
	case L2:
		return "L2"
	case L2Squared:
		return "L2_SQUARED"
	case LInf:
		return "LINF"
	default:
		return "UNKNOWN"
	}
}

// ParseDistanceType resolves a metric name such as "l2" or "linf"
func ParseDistanceType(name string) (DistanceType, error) {
	switch strings.ToUpper(name) {
	case "L1", "MANHATTAN":
		return L1, nil
	case "", "L2", "EUCLIDEAN":
		return L2, nil
	case "L2_SQUARED", "L2SQ":
		return L2Squared, nil
	case "LINF", "CHEBYSHEV":
		return LInf, nil
	default:
		return L2, fmt.Errorf("unknown distance type %q", name)
	}
}

// Distance measures a to b under the given metric
func Distance(a, b Vector, metric DistanceType) (float64, error) {
	if err := sameSize(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}

	switch metric {
	case L1:
		return floats.Distance(a, b, 1), nil
	case L2:
		return floats.Distance(a, b, 2), nil
	case L2Squared:
		d := floats.Distance(a, b, 2)
		return d * d, nil
	case LInf:
		return floats.Distance(a, b, math.Inf(1)), nil
	default:
		return 0, fmt.Errorf("unsupported distance type %d", metric)
	}
}
