package model

import "math"

type QuantileMethod string

const (
	// type 7: linear interpolation between order statistics
	InterpolatedQuantile QuantileMethod = "interpolated"
	// sorted[floor(n*p)], always a recorded value
	NearestRankQuantile QuantileMethod = "nearest_rank"
)

type Params struct {
	Quantile   float64        `json:"quantile" yaml:"quantile"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Repeats    int            `json:"repeats" yaml:"repeats"`
	Seed       uint64         `json:"seed" yaml:"seed"`
	Method     QuantileMethod `json:"method,omitempty" yaml:"method,omitempty"`
}

// Alpha is the probability left in each tail of the interval.
func (p *Params) Alpha() float64 {
	return (1 - p.Confidence) / 2
}

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	// Estimate is the median of the bootstrap distribution
	Estimate float64 `json:"estimate"`
	Upper    float64 `json:"upper"`

	Quantile   float64 `json:"quantile"`
	Confidence float64 `json:"confidence"`
	Repeats    int     `json:"repeats"`
	Valid      int     `json:"valid"` // resamples that produced a non-missing statistic
}

func (c *ConfidenceInterval) Width() float64 {
	if c == nil {
		return math.NaN()
	}
	return c.Upper - c.Lower
}

func (c *ConfidenceInterval) Ordered() bool {
	if c == nil {
		return false
	}
	return c.Lower <= c.Estimate && c.Estimate <= c.Upper
}

func (c *ConfidenceInterval) Contains(value float64) bool {
	if c == nil {
		return false
	}
	return c.Lower <= value && value <= c.Upper
}

// GroupResult is one row of the output table. Interval is nil when Err is set.
type GroupResult struct {
	Key     string
	Count   int
	Missing int

	// summary of the unresampled, non-missing values; NaN when there are none
	Min      float64
	Max      float64
	Mean     float64
	Observed float64

	Interval *ConfidenceInterval
	Err      error
}

func (r *GroupResult) Failed() bool {
	return r != nil && r.Err != nil
}
