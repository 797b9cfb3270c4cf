package bootstrap

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/quantile"
	"github.com/uyouii/bootstrap-ci/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var lowFlow = []float64{0.00148, 0.00064, 0.34256, 0.00064}

func TestIntervalLowFlow(t *testing.T) {
	assert := assert.New(t)

	params := DefaultParams(27)
	res, err := Interval(NewGenerator(params.Seed), lowFlow, params)
	require.NoError(t, err)

	for _, v := range []float64{res.Lower, res.Estimate, res.Upper} {
		assert.False(math.IsNaN(v) || math.IsInf(v, 0))
	}
	assert.True(res.Ordered(), "%+v", res)

	observed := quantile.Of(lowFlow, 0.1, quantile.Interpolated)
	assert.InEpsilon(observed, res.Estimate, 0.05)

	assert.Equal(3000, res.Repeats)
	assert.Equal(3000, res.Valid)
	assert.Equal(0.1, res.Quantile)
	assert.Equal(0.95, res.Confidence)
}

func TestIntervalDeterministic(t *testing.T) {
	params := DefaultParams(27)
	params.Repeats = 500
	values := []float64{12.1, 3.3, 8.7, 0.9, 15.2, 6.6, 4.4, 9.9}

	a, err := Interval(NewGenerator(27), values, params)
	require.NoError(t, err)
	b, err := Interval(NewGenerator(27), values, params)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	c, err := Interval(NewGenerator(28), values, params)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestIntervalOrdered(t *testing.T) {
	values := make([]float64, 0, 40)
	for i := 0; i < 40; i++ {
		values = append(values, math.Sqrt(float64(i*7%23)+1))
	}

	for _, method := range []model.QuantileMethod{model.InterpolatedQuantile, model.NearestRankQuantile} {
		for _, confidence := range []float64{0.5, 0.8, 0.9, 0.95, 0.99} {
			params := DefaultParams(3)
			params.Method = method
			params.Confidence = confidence
			params.Repeats = 1000

			res, err := Interval(NewGenerator(3), values, params)
			require.NoError(t, err)
			assert.True(t, res.Ordered(), "method=%v confidence=%v %+v", method, confidence, res)
		}
	}
}

func TestIntervalWidensWithConfidence(t *testing.T) {
	values := []float64{5.1, 2.2, 7.3, 1.4, 9.5, 3.6, 6.7, 4.8, 8.9, 0.5, 2.9, 7.7}

	for _, method := range []model.QuantileMethod{model.InterpolatedQuantile, model.NearestRankQuantile} {
		prev := -1.0
		for _, confidence := range []float64{0.5, 0.8, 0.9, 0.95, 0.99} {
			params := DefaultParams(11)
			params.Method = method
			params.Quantile = 0.25
			params.Confidence = confidence
			params.Repeats = 800

			res, err := Interval(NewGenerator(11), values, params)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Width(), prev, "method=%v confidence=%v", method, confidence)
			prev = res.Width()
		}
	}
}

func TestIntervalMissing(t *testing.T) {
	assert := assert.New(t)

	params := DefaultParams(9)
	params.Repeats = 200

	_, err := Interval(NewGenerator(9), []float64{quantile.Missing, quantile.Missing}, params)
	assert.True(errors.Is(err, common.ErrorInsufficientData))

	// with two values, about one resample in four is all missing
	res, err := Interval(NewGenerator(9), []float64{quantile.Missing, 3}, params)
	require.NoError(t, err)
	assert.Less(res.Valid, res.Repeats)
	assert.Greater(res.Valid, 0)
	assert.Equal(3.0, res.Lower)
	assert.Equal(3.0, res.Upper)
}

func TestIntervalErrors(t *testing.T) {
	gen := NewGenerator(1)
	valid := DefaultParams(1)

	for _, tt := range []struct {
		name   string
		modify func(p *model.Params)
		values []float64
		want   error
	}{
		{name: "quantile above one", modify: func(p *model.Params) { p.Quantile = 1.2 }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "quantile nan", modify: func(p *model.Params) { p.Quantile = math.NaN() }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "confidence zero", modify: func(p *model.Params) { p.Confidence = 0 }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "confidence one", modify: func(p *model.Params) { p.Confidence = 1 }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "zero repeats", modify: func(p *model.Params) { p.Repeats = 0 }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "unknown method", modify: func(p *model.Params) { p.Method = "type6" }, values: lowFlow, want: common.ErrorInvalidParameter},
		{name: "empty values", modify: func(p *model.Params) {}, values: nil, want: common.ErrorEmptyInput},
		// parameters are checked before the input
		{name: "empty values bad params", modify: func(p *model.Params) { p.Repeats = -1 }, values: nil, want: common.ErrorInvalidParameter},
	} {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.modify(&params)
			res, err := Interval(gen, tt.values, params)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDegenerate(t *testing.T) {
	assert := assert.New(t)

	assert.True(Degenerate(0.95, 39))
	assert.False(Degenerate(0.95, 40))
	assert.False(Degenerate(0.95, DefaultRepeats))
	assert.True(Degenerate(0.5, 3))
}

func TestCalculateInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := utils.WithLogger(context.Background(), zap.New(core))

	params := DefaultParams(27)
	params.Repeats = 10

	res, err := CalculateInterval(ctx, NewGenerator(27), &model.Group{Key: "site-1", Values: lowFlow}, params)
	require.NoError(t, err)
	assert.True(t, res.Ordered())

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "site-1", warnings[0].ContextMap()["group"])

	_, err = CalculateInterval(ctx, NewGenerator(27), &model.Group{Key: "site-2"}, params)
	assert.True(t, errors.Is(err, common.ErrorEmptyInput))
	assert.Equal(t, 1, logs.FilterMessage("bootstrap interval failed").Len())

	_, err = CalculateInterval(ctx, NewGenerator(27), nil, params)
	assert.True(t, errors.Is(err, common.ErrorEmptyInput))
}

func TestCalculateIntervalRecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	ctx := utils.WithLogger(context.Background(), zap.New(core))

	// a zero Generator has no source and panics on the first draw
	res, err := CalculateInterval(ctx, &Generator{}, &model.Group{Key: "x", Values: lowFlow}, DefaultParams(1))
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("CalculateInterval recover panic error!").Len())
}

func TestIntervalInfiniteValues(t *testing.T) {
	assert := assert.New(t)

	params := DefaultParams(1)
	params.Repeats = 200

	res, err := Interval(NewGenerator(1), []float64{1, math.Inf(1), math.Inf(1)}, params)
	require.NoError(t, err)
	assert.Equal(params.Repeats, res.Valid)
	for _, v := range []float64{res.Lower, res.Estimate, res.Upper} {
		assert.False(math.IsNaN(v))
	}
	assert.True(res.Ordered(), "%+v", res)
}
