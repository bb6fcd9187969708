package usecase

import (
	"sort"
	"time"

	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// ReportBuilder turns a finalized bucket into rows and chart series
type ReportBuilder struct {
	metrics      []model.Metric
	maxPoints    int
	urlSources   map[string]*model.Repository
	repositories []string
	now          func() time.Time
}

// ReportOption configures ReportBuilder
type ReportOption func(*ReportBuilder)

// WithMetrics selects the charted metrics. Defaults to model.AllMetrics.
func WithMetrics(metrics ...model.Metric) ReportOption {
	return func(b *ReportBuilder) {
		b.metrics = metrics
	}
}

// WithMaxPoints decimates chart series so a chart holds about n points. Zero disables it.
func WithMaxPoints(n int) ReportOption {
	return func(b *ReportBuilder) {
		b.maxPoints = n
	}
}

// WithClock overrides the generation time source
func WithClock(now func() time.Time) ReportOption {
	return func(b *ReportBuilder) {
		b.now = now
	}
}

// NewReportBuilder creates a builder. Commit URLs are rendered from the
// template of each repository, looked up by owner/repo. The last non-empty
// template of an owner/repo wins.
func NewReportBuilder(repos []*model.Repository, opts ...ReportOption) *ReportBuilder {
	b := &ReportBuilder{
		metrics:    model.AllMetrics,
		urlSources: map[string]*model.Repository{},
		now:        time.Now,
	}
	for _, repo := range repos {
		if repo.CommitURLTemplate != "" {
			b.urlSources[repo.OwnerRepo()] = repo
		}
		b.repositories = append(b.repositories, repo.DisplayName())
	}
	model.SortAuthors(b.repositories)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type keyedRecord struct {
	author string
	rec    *model.CommitRecord
}

// Build creates the report of a finalized, collapsed bucket
func (b *ReportBuilder) Build(title string, bucket model.AuthorBucket, hidden []string) *model.Report {
	authors := bucket.Keys()

	var merged []keyedRecord
	for _, author := range authors {
		for _, rec := range bucket[author] {
			merged = append(merged, keyedRecord{author: author, rec: rec})
		}
	}
	sortKeyed(merged)

	report := &model.Report{
		Title:        title,
		GeneratedAt:  b.now(),
		Metrics:      b.metrics,
		Authors:      authors,
		Hidden:       hidden,
		Repositories: b.repositories,
		Rows:         make([]model.ReportRow, 0, len(merged)),
	}

	grand := model.RunningTotals{}
	for _, kr := range merged {
		grand = grand.Add(kr.rec.Stats)
		report.Rows = append(report.Rows, model.ReportRow{
			Author:         kr.author,
			OriginalAuthor: kr.rec.Author,
			Timestamp:      kr.rec.Timestamp,
			RunningTotals:  kr.rec.RunningTotals,
			Stats:          kr.rec.Stats,
			GrandTotal:     grand,
			Owner:          kr.rec.Owner,
			Repo:           kr.rec.Repo,
			Branch:         kr.rec.Branch,
			SHA:            kr.rec.SHA,
			CommitURL:      b.commitURL(kr.rec),
		})
	}

	if len(report.Rows) == 0 {
		return report
	}

	for _, metric := range b.metrics {
		report.Charts = append(report.Charts, b.buildChart(metric, bucket, authors, report.Rows))
	}
	return report
}

func (b *ReportBuilder) buildChart(metric model.Metric, bucket model.AuthorBucket, authors []string, rows []model.ReportRow) model.Chart {
	chart := model.Chart{
		Metric: metric,
		Title:  metric.Title(),
		Step:   1,
	}

	for _, author := range authors {
		series := model.Series{Author: author}
		for _, rec := range bucket[author] {
			p := b.point(rec, metric.Value(rec.RunningTotals), metric.Delta(rec.Stats))
			if author == types.OthersAuthor {
				p.Author = rec.Author
			}
			series.Points = append(series.Points, p)
		}
		chart.Series = append(chart.Series, series)
	}

	total := model.Series{Author: types.TotalAuthor}
	for _, row := range rows {
		total.Points = append(total.Points, model.SeriesPoint{
			Time:      row.Timestamp,
			Value:     metric.Value(row.GrandTotal),
			PlusMinus: metric.Delta(row.Stats),
			Owner:     row.Owner,
			Repo:      row.Repo,
			Branch:    row.Branch,
			SHA:       row.SHA,
			CommitURL: row.CommitURL,
			Author:    totalPointAuthor(row),
		})
	}
	chart.Series = append(chart.Series, total)

	if step := decimationStep(chart.Series, b.maxPoints); step > 1 {
		chart.Step = step
		for i := range chart.Series {
			chart.Series[i].Points = Decimate(chart.Series[i].Points, step)
		}
	}
	return chart
}

// totalPointAuthor names the display author, with the original author of a
// collapsed commit in parentheses
func totalPointAuthor(row model.ReportRow) string {
	if row.OriginalAuthor == "" || row.OriginalAuthor == row.Author {
		return row.Author
	}
	return row.Author + " (" + row.OriginalAuthor + ")"
}

func (b *ReportBuilder) point(rec *model.CommitRecord, value, delta int) model.SeriesPoint {
	return model.SeriesPoint{
		Time:      rec.Timestamp,
		Value:     value,
		PlusMinus: delta,
		Owner:     rec.Owner,
		Repo:      rec.Repo,
		Branch:    rec.Branch,
		SHA:       rec.SHA,
		CommitURL: b.commitURL(rec),
	}
}

func (b *ReportBuilder) commitURL(rec *model.CommitRecord) string {
	repo, ok := b.urlSources[rec.OwnerRepo()]
	if !ok {
		return ""
	}
	return repo.CommitURL(rec.SHA)
}

func decimationStep(series []model.Series, maxPoints int) int {
	if maxPoints <= 0 {
		return 1
	}
	count := 0
	for _, s := range series {
		count += len(s.Points)
	}
	if count <= maxPoints {
		return 1
	}
	return count / maxPoints
}

// Decimate keeps every step-th point and always the last one
func Decimate(points []model.SeriesPoint, step int) []model.SeriesPoint {
	if step <= 1 || len(points) == 0 {
		return points
	}
	kept := make([]model.SeriesPoint, 0, len(points)/step+1)
	for i, p := range points {
		if i%step == 0 || i == len(points)-1 {
			kept = append(kept, p)
		}
	}
	return kept
}

// sortKeyed keeps author key order for equal timestamps
func sortKeyed(records []keyedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].rec.Timestamp.Before(records[j].rec.Timestamp)
	})
}
