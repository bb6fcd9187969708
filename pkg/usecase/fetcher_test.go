package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/usecase"
)

func shasOf(bucket model.AuthorBucket) []string {
	var shas []string
	for _, rec := range bucket.Records() {
		shas = append(shas, rec.SHA)
	}
	return shas
}

func TestFetcher_Fetch(t *testing.T) {
	client := newMockClient(
		fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1), Additions: 10, Deletions: 2},
		fakeCommit{SHA: "c2", Email: "bob@example.com", Name: "Bob", Timestamp: day(2), Additions: 5, Deletions: 1},
		fakeCommit{SHA: "c3", Login: "alice", Timestamp: day(3), Additions: 3, Deletions: 5},
	)
	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
		usecase.WithDetailConcurrency(4),
	)

	bucket, err := fetcher.Fetch(context.Background(), newRepo("acme", "widgets"))
	gt.NoError(t, err)

	gt.Equal(t, bucket.Count(), 3)
	gt.A(t, bucket["alice"]).Length(2)
	gt.A(t, bucket[types.UnknownAuthor]).Length(1)

	unknown := bucket[types.UnknownAuthor][0]
	gt.Equal(t, unknown.AuthorEmail, "bob@example.com")
	gt.Equal(t, unknown.AuthorName, "Bob")
	gt.Equal(t, unknown.Stats, model.NewStats(5, 1, 6))
	gt.Equal(t, unknown.Owner, "acme")
	gt.Equal(t, unknown.Branch, "main")

	// Two pages of two commits
	gt.A(t, client.listCalls).Length(2)
	gt.A(t, client.detailCalls).Length(3)
}

func TestFetcher_IgnoreFiles(t *testing.T) {
	client := newMockClient(
		fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1), Additions: 5000,
			Files: []model.ChangedFile{{Filename: "package-lock.json", Status: "added"}}},
		fakeCommit{SHA: "c2", Login: "alice", Timestamp: day(2), Additions: 20,
			Files: []model.ChangedFile{{Filename: "package-lock.json", Status: "modified"}}},
	)
	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
		usecase.WithIgnoreFiles([]string{"package-lock.json"}),
	)

	bucket, err := fetcher.Fetch(context.Background(), newRepo("acme", "widgets"))
	gt.NoError(t, err)
	gt.Equal(t, shasOf(bucket), []string{"c2"})
}

func TestFetcher_DropBeforeSince(t *testing.T) {
	client := newMockClient(
		fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1), Additions: 1},
		fakeCommit{SHA: "c2", Login: "alice", Timestamp: day(5), Additions: 1},
	)
	// The API may return commits older than the requested boundary
	client.ignoreSince = true
	repo := newRepo("acme", "widgets")
	since := day(3)
	repo.Since = &since

	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}))

	bucket, err := fetcher.Fetch(context.Background(), repo)
	gt.NoError(t, err)
	gt.Equal(t, shasOf(bucket), []string{"c2"})
}

func TestFetcher_Resume(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	cache := usecase.NewCommitCache(store)
	repo := newRepo("acme", "widgets")

	client := newMockClient(
		fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1), Additions: 1},
		fakeCommit{SHA: "c2", Login: "bob", Timestamp: day(2), Additions: 1},
		fakeCommit{SHA: "c3", Login: "alice", Timestamp: day(3), Additions: 1},
	)
	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
		usecase.WithCache(cache),
	)

	first, err := fetcher.Fetch(ctx, repo)
	gt.NoError(t, err)
	gt.Equal(t, first.Count(), 3)
	gt.Equal(t, store.puts, 1)

	// Two new commits, one sharing the timestamp of the latest cached commit
	client.commits = append(client.commits,
		fakeCommit{SHA: "c4", Login: "carol", Timestamp: day(3), Additions: 1},
		fakeCommit{SHA: "c5", Login: "alice", Timestamp: day(6), Additions: 1},
	)
	client.detailCalls = nil
	client.listCalls = nil

	second, err := fetcher.Fetch(ctx, repo)
	gt.NoError(t, err)
	gt.Equal(t, second.Count(), 5)
	gt.Equal(t, len(second.SHAs()), 5)
	gt.Equal(t, store.puts, 2)

	// Listing resumed from the latest cached commit, which was not fetched again
	gt.Equal(t, *client.listCalls[0], day(3))
	gt.Equal(t, client.detailCalls, []string{"c5", "c4"})

	// Nothing new: no detail request and no cache write
	client.detailCalls = nil
	third, err := fetcher.Fetch(ctx, repo)
	gt.NoError(t, err)
	gt.Equal(t, third.Count(), 5)
	gt.A(t, client.detailCalls).Length(0)
	gt.Equal(t, store.puts, 2)
}

func TestFetcher_ResumeOutOfOrder(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	repo := newRepo("acme", "widgets")

	client := newMockClient(
		fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1), Additions: 1},
		fakeCommit{SHA: "c2", Login: "bob", Timestamp: day(2), Additions: 1},
		fakeCommit{SHA: "c3", Login: "alice", Timestamp: day(3), Additions: 1},
	)
	// The listing serves every commit again, whatever the since boundary
	client.ignoreSince = true
	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
		usecase.WithCache(usecase.NewCommitCache(store)),
	)

	first, err := fetcher.Fetch(ctx, repo)
	gt.NoError(t, err)
	gt.Equal(t, first.Count(), 3)

	// c0 is new but older than the latest cached commit
	client.commits = append(client.commits,
		fakeCommit{SHA: "c0", Login: "carol", Timestamp: day(2), Additions: 4},
		fakeCommit{SHA: "c5", Login: "alice", Timestamp: day(6), Additions: 1},
	)
	client.detailCalls = nil

	second, err := fetcher.Fetch(ctx, repo)
	gt.NoError(t, err)
	gt.Equal(t, second.Count(), 5)
	gt.Equal(t, len(second.SHAs()), 5)
	gt.A(t, client.detailCalls).Length(2)

	gt.A(t, second["carol"]).Length(1)
	gt.Equal(t, second["carol"][0].SHA, "c0")
	gt.Equal(t, second["carol"][0].Timestamp, day(2))
	gt.Equal(t, store.puts, 2)
}

func TestFetcher_ReservedLogin(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	client := newMockClient(
		fakeCommit{SHA: "c1", Login: types.OthersAuthor, Timestamp: day(1), Additions: 1},
		fakeCommit{SHA: "c2", Login: "alice", Timestamp: day(2), Additions: 1},
	)
	fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}))

	bucket, err := fetcher.Fetch(ctx, newRepo("acme", "widgets"))
	gt.NoError(t, err)
	gt.Equal(t, bucket.Count(), 2)
	gt.String(t, buf.String()).Contains("collides with a reserved author key")
	gt.String(t, buf.String()).Contains(`"sha":"c1"`)
}

func TestFetcher_Error(t *testing.T) {
	t.Run("listing fails", func(t *testing.T) {
		store := newMockStore()
		client := newMockClient(fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1)})
		client.listErr = errors.New("502 bad gateway")
		fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
			usecase.WithCache(usecase.NewCommitCache(store)),
		)

		bucket, err := fetcher.Fetch(context.Background(), newRepo("acme", "widgets"))
		gt.Error(t, err)
		gt.Value(t, bucket).Nil()
		gt.Equal(t, store.puts, 0)
	})

	t.Run("detail fails", func(t *testing.T) {
		store := newMockStore()
		client := newMockClient(fakeCommit{SHA: "c1", Login: "alice", Timestamp: day(1)})
		client.detailErr = errors.New("404 not found")
		fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{"acme/widgets": client}),
			usecase.WithCache(usecase.NewCommitCache(store)),
		)

		_, err := fetcher.Fetch(context.Background(), newRepo("acme", "widgets"))
		gt.Error(t, err)
		gt.Equal(t, store.puts, 0)
	})

	t.Run("unknown repository", func(t *testing.T) {
		fetcher := usecase.NewFetcher(factoryOf(map[string]*MockGitHubClient{}))
		_, err := fetcher.Fetch(context.Background(), newRepo("acme", "widgets"))
		gt.Error(t, err)
	})
}
