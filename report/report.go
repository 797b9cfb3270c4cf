// Package report renders aggregated confidence intervals.
package report

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/uyouii/bootstrap-ci/aggregate"
	"github.com/uyouii/bootstrap-ci/utils"
)

const DefaultDigits = 4

type Options struct {
	// Digits is the number of significant digits printed, DefaultDigits when zero
	Digits int32
}

// Row is the JSON form of a model.GroupResult. Statistics that could not be
// computed are null.
type Row struct {
	Group    string   `json:"group"`
	Count    int      `json:"n"`
	Missing  int      `json:"missing"`
	Observed *float64 `json:"observed"`
	Lower    *float64 `json:"lower"`
	Estimate *float64 `json:"estimate"`
	Upper    *float64 `json:"upper"`
	Error    string   `json:"error,omitempty"`
}

func Rows(results *aggregate.Results, opts Options) []Row {
	digits := opts.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}
	round := func(f float64) *float64 {
		return utils.NaNToNil(utils.FormatFloat(f, digits))
	}

	res := make([]Row, 0, results.Len())
	for _, group := range results.Groups {
		row := Row{
			Group:    group.Key,
			Count:    group.Count,
			Missing:  group.Missing,
			Observed: round(group.Observed),
		}
		if group.Interval != nil {
			row.Lower = round(group.Interval.Lower)
			row.Estimate = round(group.Interval.Estimate)
			row.Upper = round(group.Interval.Upper)
		}
		if group.Err != nil {
			row.Error = group.Err.Error()
		}
		res = append(res, row)
	}
	return res
}

func JSON(w io.Writer, results *aggregate.Results, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Rows(results, opts))
}

// Table writes one line per group, failed groups have their error in red.
func Table(w io.Writer, results *aggregate.Results, opts Options) error {
	red := color.New(color.FgRed)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"group", "n", "missing", "observed", "lower", "estimate", "upper", "error"})
	table.SetAutoWrapText(false)
	for _, row := range Rows(results, opts) {
		errorCell := ""
		if row.Error != "" {
			errorCell = red.Sprint(row.Error)
		}
		table.Append([]string{
			row.Group,
			strconv.Itoa(row.Count),
			strconv.Itoa(row.Missing),
			formatCell(row.Observed),
			formatCell(row.Lower),
			formatCell(row.Estimate),
			formatCell(row.Upper),
			errorCell,
		})
	}
	table.Render()
	return nil
}

func formatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
