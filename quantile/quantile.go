// Package quantile implements the sample quantile definitions used by the
// bootstrap estimators together with the missing-value policy they share.
package quantile

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/model"
)

// Method computes the p quantile of a sorted, non-empty slice without missing values.
type Method func(sorted []float64, p float64) float64

// Missing marks an absent or non-detect value, and a statistic that could not be computed.
var Missing = math.NaN()

func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

func ValidFraction(p float64) bool {
	return p >= 0 && p <= 1
}

// Interpolated is the type 7 quantile: linear interpolation between the order
// statistics around position 1+p*(n-1) of the 1-indexed sorted sample.
func Interpolated(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return Missing
	}
	h := p * float64(n-1)
	lower := math.Floor(h)
	i := int(lower)
	if i >= n-1 {
		return sorted[n-1]
	}
	a, b := sorted[i], sorted[i+1]
	// exact position or equal neighbours, also keeps Inf-Inf from producing NaN
	if h == lower || a == b {
		return a
	}
	if math.IsInf(a, -1) {
		return a
	}
	if math.IsInf(b, 1) {
		return b
	}
	return a + (h-lower)*(b-a)
}

// NearestRank returns sorted[floor(n*p)], clamped to the largest value, so the
// result is always one of the recorded values.
func NearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return Missing
	}
	i := int(math.Floor(float64(n) * p))
	if i >= n {
		i = n - 1
	}
	return sorted[i]
}

func ByName(name model.QuantileMethod) (Method, error) {
	switch name {
	case "", model.InterpolatedQuantile:
		return Interpolated, nil
	case model.NearestRankQuantile:
		return NearestRank, nil
	}
	return nil, errors.Wrapf(common.ErrorInvalidParameter, "unknown quantile method %q", name)
}

// Present appends the non-missing values to dst and returns the extended slice.
func Present(dst, values []float64) []float64 {
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

// Of computes the p quantile of unsorted values, skipping missing ones.
// It returns Missing when no value is left.
func Of(values []float64, p float64, method Method) float64 {
	sorted := Present(make([]float64, 0, len(values)), values)
	if len(sorted) == 0 {
		return Missing
	}
	if method == nil {
		method = Interpolated
	}
	sort.Float64s(sorted)
	return method(sorted, p)
}
