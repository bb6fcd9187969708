package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
)

const (
	chartHeight     = "600px"
	generatedLayout = "2006-01-02 15:04:05 MST"
	fullZoomPct     = 100
)

// Point values are [time ms, value, delta, repository, sha, commit url, author]
const pointTooltip = `function (params) {
	var v = params.value;
	var delta = v[2] >= 0 ? '+' + v[2] : '' + v[2];
	var lines = [
		'<b>' + params.seriesName + '</b>: ' + v[1] + ' (' + delta + ')',
		new Date(v[0]).toISOString().replace('T', ' ').substring(0, 19),
		v[3] + ' ' + v[4].substring(0, 10)
	];
	if (v[6]) { lines.push('Author: ' + v[6]); }
	if (v[5]) { lines.push(v[5]); }
	return lines.join('<br/>');
}`

// HTMLWriter renders one line chart per metric to
// "<dir>/<base>_<YYYYmmddHHMMSS>.html"
type HTMLWriter struct {
	dir  string
	base string
}

// NewHTMLWriter creates an HTMLWriter
func NewHTMLWriter(dir, base string) *HTMLWriter {
	return &HTMLWriter{dir: dir, base: base}
}

// Path returns the file the report is written to
func (w *HTMLWriter) Path(report *model.Report) string {
	return filepath.Join(w.dir, FileName(w.base, report.GeneratedAt, "html"))
}

// Write creates the HTML file. Nothing is written for an empty report.
func (w *HTMLWriter) Write(ctx context.Context, report *model.Report) error {
	if report.Empty() {
		ctxlog.From(ctx).Info("No commit to report, HTML file not generated")
		return nil
	}

	path := w.Path(report)
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := RenderHTML(f, report); err != nil {
		return goerr.Wrap(err, "failed to render HTML report", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close HTML report", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Output file generated", "path", path)
	return nil
}

// RenderHTML writes the charts of report as a standalone page
func RenderHTML(out io.Writer, report *model.Report) error {
	page := components.NewPage()
	page.PageTitle = report.Title
	if page.PageTitle == "" {
		page.PageTitle = "Contribution statistics"
	}

	for i, chart := range report.Charts {
		line := newLineChart(chart)
		if i == 0 {
			lines := []string{subtitle(report)}
			if note := decimationNote(chart); note != "" {
				lines = append(lines, note)
			}
			line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
				Title:    headline(report, chart),
				Subtitle: strings.Join(lines, "\n"),
			}))
		}
		page.AddCharts(line)
	}

	if err := page.Render(out); err != nil {
		return goerr.Wrap(err, "failed to render page")
	}
	return nil
}

func headline(report *model.Report, chart model.Chart) string {
	if report.Title == "" {
		return chart.Title
	}
	return report.Title + " - " + chart.Title
}

func subtitle(report *model.Report) string {
	lines := []string{
		"Generated " + report.GeneratedAt.Format(generatedLayout),
		"Repositories: " + strings.Join(report.Repositories, ", "),
	}
	if len(report.Hidden) > 0 {
		lines = append(lines, "OTHERS: "+strings.Join(report.Hidden, ", "))
	}
	return strings.Join(lines, "\n")
}

// decimationNote tells how many commits a plotted point stands for
func decimationNote(chart model.Chart) string {
	if chart.Step <= 1 {
		return ""
	}
	return fmt.Sprintf("One commit out of %d plotted", chart.Step)
}

func newLineChart(chart model.Chart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: chart.Title, Subtitle: decimationNote(chart)}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(pointTooltip),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Bottom: "5px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: fullZoomPct}, opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: chart.Title}),
	)

	for _, series := range chart.Series {
		line.AddSeries(series.Author, lineData(series.Points),
			charts.WithLineChartOpts(opts.LineChart{Step: "end"}),
		)
	}
	return line
}

func lineData(points []model.SeriesPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{
			Value: []any{
				p.Time.UnixMilli(),
				p.Value,
				p.PlusMinus,
				p.Owner + "/" + p.Repo + " (" + p.Branch + ")",
				p.SHA,
				p.CommitURL,
				p.Author,
			},
		}
	}
	return data
}
