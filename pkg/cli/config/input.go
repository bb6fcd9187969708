package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/infra/source"
	"github.com/urfave/cli/v3"
)

// Input holds the repository list and identity resolution configuration
type Input struct {
	File               string
	EmailToAuthorFile  string
	NameToAuthorFile   string
	IgnoreFiles        []string
	AllowUnknownAuthor bool
}

// Flags returns CLI flags for input configuration
func (c *Input) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Repository list, one 'scheme,host,base_path,owner,repo,branch,commit_url_template,since,api_token[,excluded_shas]' per line",
			Destination: &c.File,
			Sources:     cli.EnvVars("GREVOS_FILE"),
		},
		&cli.StringFlag{
			Name:        "email-to-author-file",
			Usage:       "Mapping file with 'email,author' lines",
			Destination: &c.EmailToAuthorFile,
			Sources:     cli.EnvVars("GREVOS_EMAIL_TO_AUTHOR_FILE"),
		},
		&cli.StringFlag{
			Name:        "name-to-author-file",
			Usage:       "Mapping file with 'name,author' lines",
			Destination: &c.NameToAuthorFile,
			Sources:     cli.EnvVars("GREVOS_NAME_TO_AUTHOR_FILE"),
		},
		&cli.StringSliceFlag{
			Name:        "ignore-files",
			Usage:       "Commits adding one of these files are excluded",
			Hidden:      true,
			Destination: &c.IgnoreFiles,
			Sources:     cli.EnvVars("GREVOS_IGNORE_FILES"),
		},
		&cli.BoolFlag{
			Name:        "allow-unknown-author",
			Usage:       "Keep commits whose author cannot be resolved under " + types.UnknownAuthor + " instead of failing",
			Value:       true,
			Destination: &c.AllowUnknownAuthor,
			Sources:     cli.EnvVars("GREVOS_ALLOW_UNKNOWN_AUTHOR"),
		},
	}
}

// Repositories reads the repository list
func (c *Input) Repositories() ([]*model.Repository, error) {
	if c.File == "" {
		return nil, goerr.New("--file is required", goerr.T(types.ErrTagInvalidInput))
	}
	return source.ReadRepositoryFile(c.File)
}

// Mapping reads the author mapping files
func (c *Input) Mapping() (*model.AuthorMapping, error) {
	return source.LoadAuthorMapping(c.EmailToAuthorFile, c.NameToAuthorFile)
}
