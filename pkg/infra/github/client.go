package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"golang.org/x/time/rate"
)

const perPage = 100

type client struct {
	githubClient *github.Client
	owner        string
	repo         string
	branch       string
}

type options struct {
	httpClient        *http.Client
	requestsPerSecond float64
}

// Option configures the GitHub client
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithRequestsPerSecond paces outgoing requests. Zero or negative disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *options) {
		o.requestsPerSecond = rps
	}
}

// NewClient creates a GitHub client bound to one repository branch
func NewClient(repo *model.Repository, opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.requestsPerSecond > 0 {
		httpClient = newThrottledClient(httpClient, cfg.requestsPerSecond)
	}

	baseURL, err := url.Parse(repo.APIBaseURL())
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API base URL",
			goerr.V("base_url", repo.APIBaseURL()),
			goerr.T(types.ErrTagInvalidInput),
		)
	}

	githubClient := github.NewClient(httpClient)
	if repo.APIToken != "" {
		githubClient = githubClient.WithAuthToken(repo.APIToken)
	}
	githubClient.BaseURL = baseURL

	return &client{
		githubClient: githubClient,
		owner:        repo.Owner,
		repo:         repo.Repo,
		branch:       repo.Branch,
	}, nil
}

// NewFactory returns a factory creating clients with the same options
func NewFactory(opts ...Option) interfaces.GitHubClientFactory {
	return func(repo *model.Repository) (interfaces.GitHubClient, error) {
		return NewClient(repo, opts...)
	}
}

// ListCommits returns one page of the branch commit listing
func (c *client) ListCommits(ctx context.Context, since *time.Time, page int) (*model.CommitPage, error) {
	opts := &github.CommitsListOptions{
		SHA: c.branch,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	if since != nil {
		opts.Since = since.UTC()
	}

	commits, resp, err := c.githubClient.Repositories.ListCommits(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, c.wrapError(err, "failed to list commits", goerr.V("page", page))
	}

	result := &model.CommitPage{
		Commits:  make([]*model.CommitSummary, 0, len(commits)),
		NextPage: resp.NextPage,
	}
	for _, commit := range commits {
		result.Commits = append(result.Commits, &model.CommitSummary{
			SHA:   commit.GetSHA(),
			Login: commit.GetAuthor().GetLogin(),
			Email: commit.GetCommit().GetAuthor().GetEmail(),
			Name:  commit.GetCommit().GetAuthor().GetName(),
		})
	}

	return result, nil
}

// GetCommit returns the diff statistics of a commit
func (c *client) GetCommit(ctx context.Context, sha string) (*model.CommitDetail, error) {
	commit, _, err := c.githubClient.Repositories.GetCommit(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return nil, c.wrapError(err, "failed to get commit", goerr.V("sha", sha))
	}

	stats := commit.GetStats()
	detail := &model.CommitDetail{
		SHA:       commit.GetSHA(),
		Timestamp: commit.GetCommit().GetAuthor().GetDate().UTC(),
		Stats:     model.NewStats(stats.GetAdditions(), stats.GetDeletions(), stats.GetTotal()),
		Files:     make([]model.ChangedFile, 0, len(commit.Files)),
	}
	for _, f := range commit.Files {
		detail.Files = append(detail.Files, model.ChangedFile{
			Filename: f.GetFilename(),
			Status:   f.GetStatus(),
		})
	}

	return detail, nil
}

func (c *client) wrapError(err error, msg string, opts ...goerr.Option) error {
	opts = append(opts,
		goerr.V("owner", c.owner),
		goerr.V("repo", c.repo),
		goerr.V("branch", c.branch),
	)

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		opts = append(opts,
			goerr.V("status_code", errResp.Response.StatusCode),
			goerr.T(types.ErrTagUpstream),
		)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		opts = append(opts, goerr.T(types.ErrTagUpstream))
	}

	return goerr.Wrap(err, msg, opts...)
}

// throttledTransport waits on a token bucket before each request
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, goerr.Wrap(err, "request pacing interrupted")
	}
	return t.base.RoundTrip(req)
}

func newThrottledClient(base *http.Client, rps float64) *http.Client {
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	throttled := *base
	throttled.Transport = &throttledTransport{
		base:    transport,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
	return &throttled
}
