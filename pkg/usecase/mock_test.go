package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
)

// fakeCommit is one commit served by MockGitHubClient
type fakeCommit struct {
	SHA       string
	Login     string
	Email     string
	Name      string
	Timestamp time.Time
	Additions int
	Deletions int
	Files     []model.ChangedFile
}

// MockGitHubClient serves commits newest first, like the commits API
type MockGitHubClient struct {
	mu        sync.Mutex
	commits   []fakeCommit
	pageSize  int
	listErr   error
	detailErr error

	// ignoreSince serves commits older than the since boundary too
	ignoreSince bool

	listCalls   []*time.Time
	detailCalls []string
}

func newMockClient(commits ...fakeCommit) *MockGitHubClient {
	return &MockGitHubClient{commits: commits, pageSize: 2}
}

func (m *MockGitHubClient) matching(since *time.Time) []fakeCommit {
	var result []fakeCommit
	for i := len(m.commits) - 1; i >= 0; i-- {
		c := m.commits[i]
		if since != nil && !m.ignoreSince && c.Timestamp.Before(*since) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func (m *MockGitHubClient) ListCommits(ctx context.Context, since *time.Time, page int) (*model.CommitPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, since)
	if m.listErr != nil {
		return nil, m.listErr
	}

	if page == 0 {
		page = 1
	}
	all := m.matching(since)
	start := (page - 1) * m.pageSize
	end := min(start+m.pageSize, len(all))

	result := &model.CommitPage{}
	if start < len(all) {
		for _, c := range all[start:end] {
			result.Commits = append(result.Commits, &model.CommitSummary{
				SHA:   c.SHA,
				Login: c.Login,
				Email: c.Email,
				Name:  c.Name,
			})
		}
	}
	if end < len(all) {
		result.NextPage = page + 1
	}
	return result, nil
}

func (m *MockGitHubClient) GetCommit(ctx context.Context, sha string) (*model.CommitDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls = append(m.detailCalls, sha)
	if m.detailErr != nil {
		return nil, m.detailErr
	}

	for _, c := range m.commits {
		if c.SHA == sha {
			return &model.CommitDetail{
				SHA:       c.SHA,
				Timestamp: c.Timestamp,
				Stats:     model.NewStats(c.Additions, c.Deletions, c.Additions+c.Deletions),
				Files:     c.Files,
			}, nil
		}
	}
	return nil, errors.New("commit not found")
}

// factoryOf serves one mock client per owner/repo
func factoryOf(clients map[string]*MockGitHubClient) interfaces.GitHubClientFactory {
	return func(repo *model.Repository) (interfaces.GitHubClient, error) {
		client, ok := clients[repo.OwnerRepo()]
		if !ok {
			return nil, errors.New("unknown repository")
		}
		return client, nil
	}
}

// MockCacheStore keeps payloads in memory
type MockCacheStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	puts   int
	getErr error
}

func newMockStore() *MockCacheStore {
	return &MockCacheStore{data: map[string][]byte{}}
}

func (m *MockCacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *MockCacheStore) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.data[key] = data
	return nil
}

func (m *MockCacheStore) Close() error {
	return nil
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func newRepo(owner, repo string) *model.Repository {
	return &model.Repository{
		Scheme:            "https://",
		Host:              "api.github.com",
		Owner:             owner,
		Repo:              repo,
		Branch:            "main",
		CommitURLTemplate: "https://github.com/{{owner}}/{{repository}}/commit/{{commit_sha}}",
	}
}

func record(sha, author string, ts time.Time, additions, deletions int) *model.CommitRecord {
	return &model.CommitRecord{
		SHA:       sha,
		Author:    author,
		Timestamp: ts,
		Owner:     "acme",
		Repo:      "widgets",
		Branch:    "main",
		Stats:     model.NewStats(additions, deletions, additions+deletions),
	}
}
