package bootstrap

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/quantile"
)

func DefaultParams(seed uint64) model.Params {
	return model.Params{
		Quantile:   DefaultQuantile,
		Confidence: DefaultConfidence,
		Repeats:    DefaultRepeats,
		Seed:       seed,
		Method:     model.InterpolatedQuantile,
	}
}

// ValidateParams checks the parameters shared by every group of a run.
func ValidateParams(params model.Params) error {
	if !quantile.ValidFraction(params.Quantile) {
		return errors.Wrapf(common.ErrorInvalidParameter, "quantile fraction %v not in [0, 1]", params.Quantile)
	}
	if !(params.Confidence > 0 && params.Confidence < 1) {
		return errors.Wrapf(common.ErrorInvalidParameter, "confidence %v not in (0, 1)", params.Confidence)
	}
	if params.Repeats <= 0 {
		return errors.Wrapf(common.ErrorInvalidParameter, "repeats %v must be positive", params.Repeats)
	}
	if _, err := quantile.ByName(params.Method); err != nil {
		return err
	}
	return nil
}

// Degenerate reports whether repeats is too small for the tail quantiles at
// this confidence, in which case the bounds collapse to the extreme statistics.
func Degenerate(confidence float64, repeats int) bool {
	alpha := (1 - confidence) / 2
	return float64(repeats) < 1/alpha
}

// Interval bootstraps the params.Quantile statistic of values params.Repeats
// times and returns the alpha, median and 1-alpha quantiles of the resulting
// distribution, alpha being (1-confidence)/2. params.Seed is not used here,
// the draws come from gen.
func Interval(gen *Generator, values []float64, params model.Params) (*model.ConfidenceInterval, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, errors.Wrap(common.ErrorInvalidParameter, "nil generator")
	}
	if len(values) == 0 {
		return nil, errors.WithStack(common.ErrorEmptyInput)
	}

	method, _ := quantile.ByName(params.Method)
	r := newResampler(gen, method, len(values))

	dist := make([]float64, 0, params.Repeats)
	for i := 0; i < params.Repeats; i++ {
		statistic := r.summarize(values, params.Quantile)
		if quantile.IsMissing(statistic) {
			continue
		}
		dist = append(dist, statistic)
	}
	if len(dist) == 0 {
		return nil, errors.Wrapf(common.ErrorInsufficientData, "all %v resamples were missing", params.Repeats)
	}
	sort.Float64s(dist)

	alpha := params.Alpha()
	return &model.ConfidenceInterval{
		Lower:      method(dist, alpha),
		Estimate:   method(dist, 0.5),
		Upper:      method(dist, 1-alpha),
		Quantile:   params.Quantile,
		Confidence: params.Confidence,
		Repeats:    params.Repeats,
		Valid:      len(dist),
	}, nil
}
