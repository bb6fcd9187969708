package model

import "time"

// Metric is a statistic rendered in the report
type Metric string

// Metrics, named after their CSV column suffix
const (
	// MetricCommits counts commits
	MetricCommits Metric = "commits"
	// MetricAdditions sums added lines
	MetricAdditions Metric = "additions"
	// MetricDeletions sums deleted lines
	MetricDeletions Metric = "deletions"
	// MetricDifferences sums additions minus deletions
	MetricDifferences Metric = "difference"
	// MetricTotals sums additions plus deletions
	MetricTotals Metric = "total"
)

// AllMetrics lists every metric in report column order
var AllMetrics = []Metric{
	MetricCommits,
	MetricAdditions,
	MetricDeletions,
	MetricDifferences,
	MetricTotals,
}

// Title returns the chart title of the metric
func (m Metric) Title() string {
	switch m {
	case MetricCommits:
		return "Number of commits"
	case MetricAdditions:
		return "Additions"
	case MetricDeletions:
		return "Deletions"
	case MetricDifferences:
		return "Difference"
	case MetricTotals:
		return "Total"
	default:
		return string(m)
	}
}

// Value picks the metric out of running totals
func (m Metric) Value(t RunningTotals) int {
	switch m {
	case MetricCommits:
		return t.NbCommits
	case MetricAdditions:
		return t.Additions
	case MetricDeletions:
		return t.Deletions
	case MetricDifferences:
		return t.Difference
	case MetricTotals:
		return t.Total
	default:
		return 0
	}
}

// Delta picks the single commit contribution of the metric
func (m Metric) Delta(s Stats) int {
	switch m {
	case MetricCommits:
		return 1
	case MetricAdditions:
		return s.Additions
	case MetricDeletions:
		return s.Deletions
	case MetricDifferences:
		return s.Difference
	case MetricTotals:
		return s.Total
	default:
		return 0
	}
}

// ReportRow is one commit of the chronological report
type ReportRow struct {
	Author         string // Display author, OTHERS for collapsed authors
	OriginalAuthor string
	Timestamp      time.Time
	RunningTotals  RunningTotals // Totals of the display author
	Stats          Stats
	GrandTotal     RunningTotals // Totals over every commit up to this row
	Owner          string
	Repo           string
	Branch         string
	SHA            string
	CommitURL      string
}

// SeriesPoint is one data point of a chart series
type SeriesPoint struct {
	Time      time.Time
	Value     int
	PlusMinus int
	Owner     string
	Repo      string
	Branch    string
	SHA       string
	CommitURL string
	Author    string // Only set on OTHERS and TOTAL series
}

// Series is the time series of one author for one metric
type Series struct {
	Author string
	Points []SeriesPoint
}

// Chart holds every series of one metric
type Chart struct {
	Metric Metric
	Title  string
	Series []Series
	Step   int // Decimation step applied to the series, 1 when not decimated
}

// Report is the output of an aggregation run
type Report struct {
	Title        string
	GeneratedAt  time.Time
	Metrics      []Metric
	Authors      []string // Visible authors sorted case-insensitively, TOTAL excluded
	Hidden       []string // Authors collapsed into OTHERS
	Repositories []string
	Rows         []ReportRow
	Charts       []Chart
}

// Empty reports whether no commit made it into the report
func (r *Report) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
