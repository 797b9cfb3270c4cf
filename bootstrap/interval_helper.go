package bootstrap

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/utils"
	"go.uber.org/zap"
)

// CalculateInterval runs Interval for one group, logging through the context
// logger and turning a panic into an error.
func CalculateInterval(ctx context.Context, gen *Generator, group *model.Group,
	params model.Params) (res *model.ConfidenceInterval, err error) {
	if group == nil {
		return nil, errors.WithStack(common.ErrorEmptyInput)
	}
	logger := utils.GetLogger(ctx).With(zap.String("group", group.Key))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("CalculateInterval recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, errors.Errorf("bootstrap of group %v panicked: %v", group.Key, r)
		}
	}()

	if Degenerate(params.Confidence, params.Repeats) {
		logger.Warn("repeats too small for confidence, bounds collapse to extreme statistics",
			zap.Int("repeats", params.Repeats), zap.Float64("confidence", params.Confidence))
	}

	res, err = Interval(gen, group.Values, params)
	if err != nil {
		logger.Error("bootstrap interval failed", zap.Error(err), zap.Int("size", group.Size()))
		return nil, err
	}

	if res.Valid < res.Repeats {
		logger.Info("some resamples had only missing values",
			zap.Int("missing", res.Repeats-res.Valid), zap.Int("repeats", res.Repeats))
	}
	logger.Debug("bootstrap interval calculated", zap.Any("interval", res))
	return res, nil
}
