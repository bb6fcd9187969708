package model

import (
	"strings"
	"time"
)

// Repository describes one repository/branch to collect commits from
type Repository struct {
	Scheme            string     // e.g. "https://"
	Host              string     // e.g. "api.github.com"
	BasePath          string     // e.g. "/api/v3" for GitHub Enterprise, empty otherwise
	Owner             string     // Repository owner
	Repo              string     // Repository name
	Branch            string     // Branch to list commits from
	CommitURLTemplate string     // Supports {{owner}}, {{repository}} and {{commit_sha}}
	Since             *time.Time // Inclusive lower bound on commit time, optional
	APIToken          string     `masq:"secret"`
	ExcludedSHAs      []string   // Commits dropped after fetching
}

// APIBaseURL returns the REST API root of the repository host, with a trailing slash
func (r *Repository) APIBaseURL() string {
	base := r.Scheme + r.Host + r.BasePath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// ListURLPrefix returns the commit listing URL without the "since" boundary
func (r *Repository) ListURLPrefix() string {
	return r.APIBaseURL() + "repos/" + r.Owner + "/" + r.Repo + "/commits?sha=" + r.Branch
}

// OwnerRepo returns "owner/repo"
func (r *Repository) OwnerRepo() string {
	return r.Owner + "/" + r.Repo
}

// DisplayName returns "owner/repo (branch)"
func (r *Repository) DisplayName() string {
	return r.OwnerRepo() + " (" + r.Branch + ")"
}

// CommitURL renders the commit URL template for a SHA. Returns an empty
// string when no template is configured.
func (r *Repository) CommitURL(sha string) string {
	return renderCommitURL(r.CommitURLTemplate, r.Owner, r.Repo, sha)
}

// renderCommitURL replaces the commit URL template placeholders
func renderCommitURL(template, owner, repo, sha string) string {
	if template == "" {
		return ""
	}
	return strings.NewReplacer(
		"{{owner}}", owner,
		"{{repository}}", repo,
		"{{commit_sha}}", sha,
	).Replace(template)
}
