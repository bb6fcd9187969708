package interfaces

import (
	"context"
	"time"

	"github.com/pferrot/grevos/pkg/domain/model"
)

// GitHubClient reads the commit history of one repository branch
type GitHubClient interface {
	// ListCommits returns one page of the commit listing. since is optional,
	// page 0 is the first page.
	ListCommits(ctx context.Context, since *time.Time, page int) (*model.CommitPage, error)

	// GetCommit returns the diff statistics of a commit
	GetCommit(ctx context.Context, sha string) (*model.CommitDetail, error)
}

// GitHubClientFactory creates a client bound to a repository
type GitHubClientFactory func(repo *model.Repository) (GitHubClient, error)
