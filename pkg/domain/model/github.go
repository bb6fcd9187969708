package model

import "time"

// FileStatusAdded is the change status of a file created by a commit
const FileStatusAdded = "added"

// CommitSummary is one entry of the commit listing
type CommitSummary struct {
	SHA   string
	Login string // Empty when the commit author is not linked to an account
	Email string
	Name  string
}

// CommitPage is one page of the commit listing
type CommitPage struct {
	Commits  []*CommitSummary
	NextPage int // 0 when there is no further page
}

// ChangedFile is a file touched by a commit
type ChangedFile struct {
	Filename string
	Status   string
}

// CommitDetail holds the diff statistics of a commit
type CommitDetail struct {
	SHA       string
	Timestamp time.Time
	Stats     Stats
	Files     []ChangedFile
}

// AddsFile reports whether the commit adds one of the given files
func (d *CommitDetail) AddsFile(filenames map[string]struct{}) (string, bool) {
	for _, f := range d.Files {
		if f.Status != FileStatusAdded {
			continue
		}
		if _, ok := filenames[f.Filename]; ok {
			return f.Filename, true
		}
	}
	return "", false
}
