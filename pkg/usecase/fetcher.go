package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/utils/async"
)

const progressInterval = 20

// Fetcher collects the commits of one repository, resuming from the cache
type Fetcher struct {
	factory           interfaces.GitHubClientFactory
	cache             *CommitCache
	ignoreFiles       []string
	detailConcurrency int
}

// FetcherOption configures Fetcher
type FetcherOption func(*Fetcher)

// WithCache enables incremental fetching
func WithCache(cache *CommitCache) FetcherOption {
	return func(f *Fetcher) {
		f.cache = cache
	}
}

// WithIgnoreFiles excludes commits adding one of the files
func WithIgnoreFiles(files []string) FetcherOption {
	return func(f *Fetcher) {
		f.ignoreFiles = files
	}
}

// WithDetailConcurrency sets how many commit details of a page are fetched at once
func WithDetailConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		f.detailConcurrency = n
	}
}

// NewFetcher creates a Fetcher
func NewFetcher(factory interfaces.GitHubClientFactory, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		factory:           factory,
		detailConcurrency: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.detailConcurrency < 1 {
		f.detailConcurrency = 1
	}
	if f.cache == nil {
		f.cache = NewCommitCache(nil)
	}
	return f
}

type fetchedCommit struct {
	summary *model.CommitSummary
	detail  *model.CommitDetail
}

// Fetch returns the commits of repo keyed by author. Authors without a
// linked account are stored under types.UnknownAuthor. Any API failure
// aborts the repository without partial results.
func (f *Fetcher) Fetch(ctx context.Context, repo *model.Repository) (model.AuthorBucket, error) {
	logger := ctxlog.From(ctx).With("repository", repo.DisplayName())
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Processing repository", "url", repo.ListURLPrefix())

	client, err := f.factory(repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client", goerr.V("repository", repo.DisplayName()))
	}

	key := f.cache.Key(repo, f.ignoreFiles)
	bucket := model.AuthorBucket{}
	known := map[string]struct{}{}
	since := repo.Since

	if entry, ok := f.cache.Load(ctx, key); ok && entry.Count > 0 {
		bucket = entry.Bucket
		known = bucket.SHAs()
		latest := entry.LatestTimestamp
		since = &latest
		logger.Info("Recovered commits from cache",
			"commits", entry.Count,
			"latest_sha", entry.LatestSHA,
			"latest_date", entry.LatestTimestamp,
		)
	}

	ignored := make(map[string]struct{}, len(f.ignoreFiles))
	for _, name := range f.ignoreFiles {
		ignored[name] = struct{}{}
	}

	accepted, processed := 0, 0
	for page := 0; ; {
		commitPage, err := client.ListCommits(ctx, since, page)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list commits", goerr.V("repository", repo.DisplayName()))
		}

		// Cached commits, the latest one included, are skipped before any detail request
		var pending []*model.CommitSummary
		for _, summary := range commitPage.Commits {
			if _, ok := known[summary.SHA]; ok {
				logger.Debug("Skipping cached commit", "sha", summary.SHA)
				continue
			}
			known[summary.SHA] = struct{}{}
			pending = append(pending, summary)
		}

		fetched, err := async.OrderedMap(ctx, f.detailConcurrency, pending,
			func(ctx context.Context, summary *model.CommitSummary) (*fetchedCommit, error) {
				detail, err := client.GetCommit(ctx, summary.SHA)
				if err != nil {
					return nil, err
				}
				return &fetchedCommit{summary: summary, detail: detail}, nil
			})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get commit details", goerr.V("repository", repo.DisplayName()))
		}

		for _, fc := range fetched {
			processed++
			if processed%progressInterval == 0 {
				logger.Info("Commits processed so far",
					"processed", processed,
					"latest_date", fc.detail.Timestamp,
				)
			}

			if name, ok := fc.detail.AddsFile(ignored); ok {
				logger.Debug("Commit adds an ignored file, skipping", "sha", fc.summary.SHA, "file", name)
				continue
			}
			if repo.Since != nil && fc.detail.Timestamp.Before(*repo.Since) {
				logger.Debug("Commit is before the since date, skipping", "sha", fc.summary.SHA)
				continue
			}

			if types.IsReservedAuthor(fc.summary.Login) {
				logger.Warn("Commit login collides with a reserved author key", "sha", fc.summary.SHA, "login", fc.summary.Login)
			}
			bucket.Add(newCommitRecord(repo, fc.summary, fc.detail))
			accepted++
		}

		if commitPage.NextPage == 0 {
			break
		}
		page = commitPage.NextPage
	}

	if accepted > 0 {
		if err := f.cache.Store(ctx, key, bucket); err != nil {
			return nil, err
		}
	}

	logger.Info("Done processing commits",
		"processed", processed,
		"new_commits", accepted,
		"commits", bucket.Count(),
	)

	return dropBefore(bucket, repo.Since), nil
}

func newCommitRecord(repo *model.Repository, summary *model.CommitSummary, detail *model.CommitDetail) *model.CommitRecord {
	author := summary.Login
	if author == "" {
		author = types.UnknownAuthor
	}
	return &model.CommitRecord{
		SHA:         summary.SHA,
		Author:      author,
		AuthorEmail: summary.Email,
		AuthorName:  summary.Name,
		Timestamp:   detail.Timestamp,
		Owner:       repo.Owner,
		Repo:        repo.Repo,
		Branch:      repo.Branch,
		Stats:       detail.Stats,
	}
}

// dropBefore removes records older than since. The cache is shared by every
// since boundary so cached records may predate it.
func dropBefore(bucket model.AuthorBucket, since *time.Time) model.AuthorBucket {
	if since == nil {
		return bucket
	}
	result := make(model.AuthorBucket, len(bucket))
	for author, records := range bucket {
		for _, rec := range records {
			if !rec.Timestamp.Before(*since) {
				result[author] = append(result[author], rec)
			}
		}
	}
	return result
}
