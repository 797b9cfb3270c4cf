package bootstrap

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/quantile"
)

// resampler keeps the draw buffer between repeats of the same group.
type resampler struct {
	gen    *Generator
	method quantile.Method
	draw   []float64
}

func newResampler(gen *Generator, method quantile.Method, size int) *resampler {
	if method == nil {
		method = quantile.Interpolated
	}
	return &resampler{
		gen:    gen,
		method: method,
		draw:   make([]float64, 0, size),
	}
}

// summarize draws len(values) values with replacement and returns the p
// quantile of the non-missing ones, or quantile.Missing if there are none.
// It always consumes exactly len(values) draws from the generator.
func (r *resampler) summarize(values []float64, p float64) float64 {
	n := len(values)
	r.draw = r.draw[:0]
	for i := 0; i < n; i++ {
		v := values[r.gen.Intn(n)]
		if quantile.IsMissing(v) {
			continue
		}
		r.draw = append(r.draw, v)
	}
	if len(r.draw) == 0 {
		return quantile.Missing
	}
	sort.Float64s(r.draw)
	return r.method(r.draw, p)
}

// ResampleAndSummarize draws one bootstrap resample of values and returns its
// p quantile computed with method (type 7 when nil). A resample made only of
// missing values yields quantile.Missing and no error.
func ResampleAndSummarize(gen *Generator, values []float64, p float64, method quantile.Method) (float64, error) {
	if gen == nil {
		return quantile.Missing, errors.Wrap(common.ErrorInvalidParameter, "nil generator")
	}
	if !quantile.ValidFraction(p) {
		return quantile.Missing, errors.Wrapf(common.ErrorInvalidParameter, "quantile fraction %v not in [0, 1]", p)
	}
	if len(values) == 0 {
		return quantile.Missing, errors.WithStack(common.ErrorEmptyInput)
	}
	return newResampler(gen, method, len(values)).summarize(values, p), nil
}
