package model

import (
	"fmt"
	"time"
)

// Observation is one measured value of a group, e.g. a daily flow at a site.
// A missing or non-detect value is stored as NaN.
type Observation struct {
	Group string
	// Time is carried as metadata only, the estimators never look at it
	Time  time.Time
	Value float64
}

func (o *Observation) HasTime() bool {
	return !o.Time.IsZero()
}

func (o *Observation) Before(observation Observation) bool {
	return o.Time.Before(observation.Time)
}

type Group struct {
	Key    string
	Values []float64
}

func (g *Group) DebugString() string {
	res := fmt.Sprintf("key: %v, valueCount: %+v", g.Key, len(g.Values))
	return res
}

func (g *Group) IsEmpty() bool {
	if g == nil {
		return true
	}
	return len(g.Values) == 0
}

func (g *Group) Size() int {
	if g == nil {
		return 0
	}
	return len(g.Values)
}
