package common

import "github.com/pkg/errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorInvalidParameter is returned before any resampling starts.
	ErrorInvalidParameter = errors.New("invalid parameter")
	ErrorEmptyInput       = errors.New("empty input")
	// ErrorInsufficientData means every resample of a group produced only missing values.
	ErrorInsufficientData = errors.New("insufficient data")
	ErrorMissingSeed      = errors.New("seed is required")
)
