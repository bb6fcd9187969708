package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/utils/async"
)

type statsUseCase struct {
	fetcher       *Fetcher
	parallelRepos int
	reportOptions []ReportOption
}

// StatsOption configures the stats use case
type StatsOption func(*statsUseCase)

// WithParallelRepos fetches up to n repositories at once
func WithParallelRepos(n int) StatsOption {
	return func(uc *statsUseCase) {
		uc.parallelRepos = n
	}
}

// WithReportOptions passes options to the report builder
func WithReportOptions(opts ...ReportOption) StatsOption {
	return func(uc *statsUseCase) {
		uc.reportOptions = append(uc.reportOptions, opts...)
	}
}

// NewStats creates a new instance of StatsUseCase
func NewStats(fetcher *Fetcher, opts ...StatsOption) interfaces.StatsUseCase {
	uc := &statsUseCase{
		fetcher:       fetcher,
		parallelRepos: 1,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.parallelRepos < 1 {
		uc.parallelRepos = 1
	}
	return uc
}

// Run fetches every repository, then resolves, filters, finalizes and
// collapses the combined commits before building the report. Nothing is
// built unless every repository was fetched.
func (uc *statsUseCase) Run(ctx context.Context, input *model.StatsInput) (*model.Report, error) {
	logger := ctxlog.From(ctx)

	if len(input.Repositories) == 0 {
		return nil, goerr.New("no repository to process", goerr.T(types.ErrTagInvalidInput))
	}

	started := time.Now()
	logger.Info("Fetching commits",
		"repositories", len(input.Repositories),
		"parallel", uc.parallelRepos,
	)

	buckets, err := async.OrderedMap(ctx, uc.parallelRepos, input.Repositories, uc.fetcher.Fetch)
	if err != nil {
		return nil, err
	}

	combined := model.AuthorBucket{}
	for _, bucket := range buckets {
		combined = Combine(combined, bucket)
	}

	resolved, err := ResolveUnknown(ctx, combined, input.Mapping, input.AllowUnknown)
	if err != nil {
		return nil, err
	}

	filter := input.Filter
	filter.ExcludedSHAs = slices.Clone(input.Filter.ExcludedSHAs)
	for _, repo := range input.Repositories {
		filter.ExcludedSHAs = append(filter.ExcludedSHAs, repo.ExcludedSHAs...)
	}
	removed := RemoveExcluded(combined, filter)

	Finalize(combined)
	hidden := RankAndCollapse(combined, input.Selection)

	report := NewReportBuilder(input.Repositories, uc.reportOptions...).Build(input.Title, combined, hidden)

	logger.Info("Aggregation done",
		"commits", len(report.Rows),
		"authors", len(report.Authors),
		"hidden_authors", len(hidden),
		"resolved_unknown", resolved,
		"excluded", removed,
		"duration", time.Since(started),
	)

	return report, nil
}
