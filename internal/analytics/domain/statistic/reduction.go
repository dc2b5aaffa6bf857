package statistic

import (
	"fmt"
	"math"
)

// Reduction folds one column of a bucket into a single value.
type Reduction int

const (
	Sum Reduction = iota
	Average
	// Zero forces the bucket value to 0.
	Zero
	// Spread is the difference between the largest and smallest value.
	Spread
)

func (r Reduction) String() string {
	switch r {
	case Sum:
		return "sum"
	case Average:
		return "average"
	case Zero:
		return "zero"
	case Spread:
		return "spread"
	default:
		return fmt.Sprintf("reduction(%d)", int(r))
	}
}

// DefaultReductions returns the bucket rule for every column.
func DefaultReductions() map[Field]Reduction {
	rules := make(map[Field]Reduction, len(fields))
	for _, f := range fields {
		rules[f.field] = Sum
	}
	rules[FieldSelfUsePercentage] = Average
	rules[FieldExportPriceGrid] = Zero
	return rules
}

func (r Reduction) apply(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch r {
	case Sum:
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	case Average:
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values))
	case Spread:
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		return hi - lo
	default:
		return 0
	}
}
