package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/infra/report"
	"github.com/urfave/cli/v3"
)

// Output holds report output configuration
type Output struct {
	Dir           string
	CSVDateFormat string
	MaxHTMLPoints int
	Commits       bool
	Additions     bool
	Deletions     bool
	Differences   bool
	Totals        bool
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory of the generated CSV and HTML files",
			Value:       "output",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_DIR"),
		},
		&cli.StringFlag{
			Name:        "csv-date-format",
			Usage:       "Go time layout of the CSV date column",
			Value:       report.DefaultCSVDateFormat,
			Destination: &c.CSVDateFormat,
			Sources:     cli.EnvVars("GREVOS_CSV_DATE_FORMAT"),
		},
		&cli.IntFlag{
			Name:        "max-html-points",
			Usage:       "Approximate maximum number of points of an HTML chart",
			Destination: &c.MaxHTMLPoints,
			Sources:     cli.EnvVars("GREVOS_MAX_HTML_POINTS"),
		},
		&cli.BoolFlag{
			Name:        "output-commits",
			Usage:       "Output the number of commits",
			Value:       true,
			Destination: &c.Commits,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_COMMITS"),
		},
		&cli.BoolFlag{
			Name:        "output-additions",
			Usage:       "Output additions",
			Value:       true,
			Destination: &c.Additions,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_ADDITIONS"),
		},
		&cli.BoolFlag{
			Name:        "output-deletions",
			Usage:       "Output deletions",
			Value:       true,
			Destination: &c.Deletions,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_DELETIONS"),
		},
		&cli.BoolFlag{
			Name:        "output-differences",
			Usage:       "Output differences (additions - deletions)",
			Value:       true,
			Destination: &c.Differences,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_DIFFERENCES"),
		},
		&cli.BoolFlag{
			Name:        "output-totals",
			Usage:       "Output totals (additions + deletions)",
			Value:       true,
			Destination: &c.Totals,
			Sources:     cli.EnvVars("GREVOS_OUTPUT_TOTALS"),
		},
	}
}

// Metrics returns the enabled metrics in column order
func (c *Output) Metrics() []model.Metric {
	enabled := map[model.Metric]bool{
		model.MetricCommits:     c.Commits,
		model.MetricAdditions:   c.Additions,
		model.MetricDeletions:   c.Deletions,
		model.MetricDifferences: c.Differences,
		model.MetricTotals:      c.Totals,
	}

	var metrics []model.Metric
	for _, m := range model.AllMetrics {
		if enabled[m] {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

// Validate checks option values
func (c *Output) Validate(cmd *cli.Command) error {
	if cmd.IsSet("max-html-points") && c.MaxHTMLPoints < 1 {
		return goerr.New("--max-html-points must be at least 1",
			goerr.V("max_html_points", c.MaxHTMLPoints),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
	if len(c.Metrics()) == 0 {
		return goerr.New("at least one metric must be enabled", goerr.T(types.ErrTagInvalidInput))
	}
	return nil
}
