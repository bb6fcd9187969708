package cli_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pferrot/grevos/pkg/cli"
)

type fakeCommit struct {
	sha, login, email, name, date string
	additions, deletions          int
}

// newGitHubServer serves the commit listing and details of acme/widgets
func newGitHubServer(t *testing.T, commits []fakeCommit) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	detailCalls := &atomic.Int32{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		var list []map[string]any
		for i := len(commits) - 1; i >= 0; i-- {
			c := commits[i]
			entry := map[string]any{
				"sha":    c.sha,
				"commit": map[string]any{"author": map[string]any{"name": c.name, "email": c.email}},
			}
			if c.login != "" {
				entry["author"] = map[string]any{"login": c.login}
			}
			list = append(list, entry)
		}
		w.Header().Set("Content-Type", "application/json")
		gt.NoError(t, json.NewEncoder(w).Encode(list))
	})
	mux.HandleFunc("/api/v3/repos/acme/widgets/commits/", func(w http.ResponseWriter, r *http.Request) {
		detailCalls.Add(1)
		sha := strings.TrimPrefix(r.URL.Path, "/api/v3/repos/acme/widgets/commits/")
		for _, c := range commits {
			if c.sha != sha {
				continue
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"sha":%q,"commit":{"author":{"date":%q}},"stats":{"additions":%d,"deletions":%d,"total":%d},"files":[]}`,
				c.sha, c.date, c.additions, c.deletions, c.additions+c.deletions)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, detailCalls
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_Report(t *testing.T) {
	srv, detailCalls := newGitHubServer(t, []fakeCommit{
		{sha: "c1", login: "alice", date: "2024-01-01T10:00:00Z", additions: 10, deletions: 2},
		{sha: "c2", email: "A@X.com", name: "Alice S.", date: "2024-01-02T10:00:00Z", additions: 5, deletions: 1},
		{sha: "c3", login: "bob", date: "2024-01-03T10:00:00Z", additions: 3, deletions: 5},
	})
	u, err := url.Parse(srv.URL)
	gt.NoError(t, err)

	dir := t.TempDir()
	repoFile := writeFile(t, filepath.Join(dir, "my_team.csv"),
		fmt.Sprintf("http://,%s,/api/v3,acme,widgets,main,https://github.com/{{owner}}/{{repository}}/commit/{{commit_sha}},,token\n", u.Host))
	emailFile := writeFile(t, filepath.Join(dir, "emails.csv"), "a@x.com,alice\n")
	outputDir := filepath.Join(dir, "output")
	cacheDir := filepath.Join(dir, "cache")

	args := []string{
		"grevos", "--log-format", "text", "--log-output", filepath.Join(dir, "grevos.log"),
		"report",
		"--file", repoFile,
		"--email-to-author-file", emailFile,
		"--output-dir", outputDir,
		"--cache-dir", cacheDir,
		"--allow-unknown-author=false",
	}
	gt.NoError(t, cli.Run(context.Background(), args))

	csvFiles, err := filepath.Glob(filepath.Join(outputDir, "my_team_*.csv"))
	gt.NoError(t, err)
	gt.A(t, csvFiles).Length(1)
	htmlFiles, err := filepath.Glob(filepath.Join(outputDir, "my_team_*.html"))
	gt.NoError(t, err)
	gt.A(t, htmlFiles).Length(1)

	data, err := os.ReadFile(csvFiles[0])
	gt.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	gt.A(t, lines).Length(4)
	gt.True(t, strings.HasPrefix(lines[0], "Date,alice (commits)"))
	// TOTAL commits, additions, deletions, difference, total
	gt.String(t, lines[3]).Contains(",3,18,8,10,26,")
	gt.String(t, lines[3]).Contains("https://github.com/acme/widgets/commit/c3")

	cacheEntries, err := os.ReadDir(cacheDir)
	gt.NoError(t, err)
	gt.A(t, cacheEntries).Length(1)
	gt.Equal(t, detailCalls.Load(), int32(3))

	// Second run is served from the cache
	gt.NoError(t, cli.Run(context.Background(), args))
	gt.Equal(t, detailCalls.Load(), int32(3))
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file flag", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"grevos", "--log-output", filepath.Join(dir, "a.log"), "report"})
		gt.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"grevos", "--log-level", "loud", "report"})
		gt.Error(t, err)
	})

	t.Run("unknown author in strict mode", func(t *testing.T) {
		srv, _ := newGitHubServer(t, []fakeCommit{
			{sha: "c1", date: "2024-01-01T10:00:00Z", additions: 1},
		})
		u, err := url.Parse(srv.URL)
		gt.NoError(t, err)

		repoFile := writeFile(t, filepath.Join(dir, "strict.csv"),
			fmt.Sprintf("http://,%s,/api/v3,acme,widgets,main,,,token\n", u.Host))

		err = cli.Run(context.Background(), []string{
			"grevos", "--log-output", filepath.Join(dir, "b.log"),
			"report", "--file", repoFile,
			"--output-dir", filepath.Join(dir, "out"),
			"--cache-backend", "none",
			"--allow-unknown-author=false",
		})
		gt.Error(t, err)

		_, statErr := os.Stat(filepath.Join(dir, "out"))
		gt.True(t, os.IsNotExist(statErr))
	})
}
