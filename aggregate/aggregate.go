// Package aggregate computes one bootstrap confidence interval per group of
// observations.
package aggregate

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/bootstrap"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/quantile"
	"github.com/uyouii/bootstrap-ci/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Results struct {
	Params model.Params
	Groups []*model.GroupResult
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Groups)
}

func (r *Results) Get(key string) (*model.GroupResult, bool) {
	if r == nil {
		return nil, false
	}
	for _, group := range r.Groups {
		if group.Key == key {
			return group, true
		}
	}
	return nil, false
}

func (r *Results) Succeeded() []*model.GroupResult {
	res := []*model.GroupResult{}
	if r == nil {
		return res
	}
	for _, group := range r.Groups {
		if !group.Failed() {
			res = append(res, group)
		}
	}
	return res
}

func (r *Results) Failed() []*model.GroupResult {
	res := []*model.GroupResult{}
	if r == nil {
		return res
	}
	for _, group := range r.Groups {
		if group.Failed() {
			res = append(res, group)
		}
	}
	return res
}

// Err combines the errors of every failed group, nil when all succeeded.
func (r *Results) Err() error {
	var err error
	for _, group := range r.Failed() {
		err = multierr.Append(err, errors.WithMessagef(group.Err, "group %v", group.Key))
	}
	return err
}

// Partition groups observations by key. Groups come out sorted by key; inside a
// group values keep input order, except that timestamped observations are
// ordered by time.
func Partition(observations []model.Observation) []*model.Group {
	byKey := map[string][]model.Observation{}
	for _, observation := range observations {
		byKey[observation.Group] = append(byKey[observation.Group], observation)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	res := make([]*model.Group, 0, len(keys))
	for _, key := range keys {
		members := byKey[key]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Before(members[j])
		})
		values := make([]float64, len(members))
		for i := range members {
			values[i] = members[i].Value
		}
		res = append(res, &model.Group{Key: key, Values: values})
	}
	return res
}

// Aggregate partitions observations and bootstraps every group with gen, in key
// order. Invalid parameters fail the whole call before any draw; a failing
// group is recorded in its GroupResult and the others still run.
func Aggregate(ctx context.Context, gen *bootstrap.Generator, observations []model.Observation,
	params model.Params) (*Results, error) {
	logger := utils.GetLogger(ctx)

	if err := bootstrap.ValidateParams(params); err != nil {
		logger.Error("invalid bootstrap parameters", zap.Error(err), zap.Any("params", params))
		return nil, err
	}
	if gen == nil {
		gen = bootstrap.NewGenerator(params.Seed)
	}

	groups := Partition(observations)
	logger.Info("begin bootstrap", zap.Int("groups", len(groups)), zap.Int("observations", len(observations)),
		zap.Uint64("seed", gen.Seed()), zap.Any("params", params))

	res := &Results{
		Params: params,
		Groups: make([]*model.GroupResult, 0, len(groups)),
	}
	for _, group := range groups {
		res.Groups = append(res.Groups, summarizeGroup(ctx, gen, group, params))
	}

	logger.Info("bootstrap finished", zap.Int("succeeded", len(res.Succeeded())), zap.Int("failed", len(res.Failed())))
	return res, nil
}

func summarizeGroup(ctx context.Context, gen *bootstrap.Generator, group *model.Group,
	params model.Params) *model.GroupResult {
	present := quantile.Present(make([]float64, 0, group.Size()), group.Values)

	res := &model.GroupResult{
		Key:      group.Key,
		Count:    group.Size(),
		Missing:  group.Size() - len(present),
		Min:      quantile.Missing,
		Max:      quantile.Missing,
		Mean:     quantile.Missing,
		Observed: quantile.Missing,
	}
	if len(present) > 0 {
		method, _ := quantile.ByName(params.Method)
		res.Min = floats.Min(present)
		res.Max = floats.Max(present)
		res.Mean = stat.Mean(present, nil)
		res.Observed = quantile.Of(present, params.Quantile, method)
	}

	res.Interval, res.Err = bootstrap.CalculateInterval(ctx, gen, group, params)
	return res
}
