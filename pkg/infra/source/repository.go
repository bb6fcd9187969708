package source

import (
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

const (
	minRepositoryFields = 9
	maxRepositoryFields = 10
)

// ReadRepositoryFile reads the repository list at path
func ReadRepositoryFile(path string) ([]*model.Repository, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	repos, err := ReadRepositories(f)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid repository file", goerr.V("path", path))
	}
	return repos, nil
}

// ReadRepositories parses repository lines:
//
//	scheme,host,base_path,owner,repo,branch,commit_url_template,since,api_token[,excluded_shas]
//
// excluded_shas is a list of SHAs separated by types.ExcludedSHASeparator.
func ReadRepositories(r io.Reader) ([]*model.Repository, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	repos := make([]*model.Repository, 0, len(lines))
	for i, fields := range lines {
		repo, err := parseRepository(fields)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid repository line", goerr.V("line", i+1))
		}
		repos = append(repos, repo)
	}

	if len(repos) == 0 {
		return nil, goerr.New("no repository to process", goerr.T(types.ErrTagInvalidInput))
	}
	return repos, nil
}

func parseRepository(fields []string) (*model.Repository, error) {
	if len(fields) < minRepositoryFields || len(fields) > maxRepositoryFields {
		return nil, goerr.New("wrong number of fields",
			goerr.V("fields", len(fields)),
			goerr.T(types.ErrTagInvalidInput),
		)
	}

	repo := &model.Repository{
		Scheme:            fields[0],
		Host:              fields[1],
		BasePath:          fields[2],
		Owner:             fields[3],
		Repo:              fields[4],
		Branch:            fields[5],
		CommitURLTemplate: fields[6],
		APIToken:          fields[8],
	}
	if repo.Host == "" || repo.Owner == "" || repo.Repo == "" || repo.Branch == "" {
		return nil, goerr.New("host, owner, repo and branch are required", goerr.T(types.ErrTagInvalidInput))
	}

	if fields[7] != "" {
		since, err := time.Parse(types.SinceLayout, fields[7])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid since date",
				goerr.V("since", fields[7]),
				goerr.T(types.ErrTagInvalidInput),
			)
		}
		repo.Since = &since
	}

	if len(fields) == maxRepositoryFields && fields[9] != "" {
		for _, sha := range strings.Split(fields[9], types.ExcludedSHASeparator) {
			if sha = strings.TrimSpace(sha); sha != "" {
				repo.ExcludedSHAs = append(repo.ExcludedSHAs, sha)
			}
		}
	}

	return repo, nil
}
