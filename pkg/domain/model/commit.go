package model

import "time"

// Stats holds the diff statistics of a single commit
type Stats struct {
	Additions  int `json:"additions"`
	Deletions  int `json:"deletions"`
	Total      int `json:"total"`
	Difference int `json:"difference"`
}

// NewStats builds Stats from the values reported by the API. Difference is derived.
func NewStats(additions, deletions, total int) Stats {
	return Stats{
		Additions:  additions,
		Deletions:  deletions,
		Total:      total,
		Difference: additions - deletions,
	}
}

// RunningTotals is the cumulative sum of Stats over an author's commits
type RunningTotals struct {
	NbCommits  int `json:"nb_commits"`
	Additions  int `json:"additions"`
	Deletions  int `json:"deletions"`
	Difference int `json:"difference"`
	Total      int `json:"total"`
}

// Add returns the totals with one more commit accounted for
func (t RunningTotals) Add(s Stats) RunningTotals {
	return RunningTotals{
		NbCommits:  t.NbCommits + 1,
		Additions:  t.Additions + s.Additions,
		Deletions:  t.Deletions + s.Deletions,
		Difference: t.Difference + s.Difference,
		Total:      t.Total + s.Total,
	}
}

// CommitRecord is one contribution event
type CommitRecord struct {
	SHA           string        `json:"sha"`
	Author        string        `json:"author"`
	AuthorEmail   string        `json:"author_email,omitempty"`
	AuthorName    string        `json:"author_name,omitempty"`
	Timestamp     time.Time     `json:"date"`
	Owner         string        `json:"owner"`
	Repo          string        `json:"repo"`
	Branch        string        `json:"branch"`
	Stats         Stats         `json:"stats"`
	RunningTotals RunningTotals `json:"total_stats_author"`
}

// OwnerRepo returns "owner/repo"
func (r *CommitRecord) OwnerRepo() string {
	return r.Owner + "/" + r.Repo
}
