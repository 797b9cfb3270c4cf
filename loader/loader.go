// Package loader reads grouped observations from delimited text.
package loader

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uyouii/bootstrap-ci/common"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/quantile"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

type Options struct {
	GroupColumn string
	ValueColumn string
	// TimeColumn is optional, it is ignored when the header does not have it
	TimeColumn string
	Comma      rune
	// MissingMarkers are cell values read as missing, compared case-insensitively.
	// A value starting with '<' (below detection limit) is always missing.
	MissingMarkers []string
}

func DefaultOptions() Options {
	return Options{
		GroupColumn:    "site",
		ValueColumn:    "value",
		TimeColumn:     "date",
		Comma:          ',',
		MissingMarkers: []string{"", "NA", "NaN", "ND"},
	}
}

func ReadFile(path string, opts Options) ([]model.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, opts)
}

// Read parses a header row followed by one observation per row.
func Read(r io.Reader, opts Options) ([]model.Observation, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(common.ErrorInvalidValue, "missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	groupIdx, valueIdx, timeIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.GroupColumn:
			groupIdx = i
		case opts.ValueColumn:
			valueIdx = i
		case opts.TimeColumn:
			timeIdx = i
		}
	}
	if groupIdx < 0 {
		return nil, errors.Wrapf(common.ErrorInvalidValue, "group column %q not in header", opts.GroupColumn)
	}
	if valueIdx < 0 {
		return nil, errors.Wrapf(common.ErrorInvalidValue, "value column %q not in header", opts.ValueColumn)
	}

	res := []model.Observation{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		line, _ := reader.FieldPos(0)

		observation := model.Observation{Group: strings.TrimSpace(record[groupIdx])}
		if observation.Value, err = parseValue(record[valueIdx], opts.MissingMarkers); err != nil {
			return nil, errors.Wrapf(err, "line %v", line)
		}
		if timeIdx >= 0 {
			if observation.Time, err = parseTime(record[timeIdx]); err != nil {
				return nil, errors.Wrapf(err, "line %v", line)
			}
		}
		res = append(res, observation)
	}
	return res, nil
}

func parseValue(cell string, missingMarkers []string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if strings.HasPrefix(cell, "<") {
		return quantile.Missing, nil
	}
	for _, marker := range missingMarkers {
		if strings.EqualFold(cell, marker) {
			return quantile.Missing, nil
		}
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.Wrapf(common.ErrorInvalidValue, "value %q", cell)
	}
	return v, nil
}

func parseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(common.ErrorInvalidValue, "time %q", cell)
}
