package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Filter holds commit filtering and author selection configuration
type Filter struct {
	MinCommitDifference int
	MaxCommitDifference int
	TopContributors     int
	Authors             []string
}

// Flags returns CLI flags for filter configuration
func (c *Filter) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "min-commit-difference",
			Usage:       "Exclude commits whose additions - deletions is below this value",
			Destination: &c.MinCommitDifference,
			Sources:     cli.EnvVars("GREVOS_MIN_COMMIT_DIFFERENCE"),
		},
		&cli.IntFlag{
			Name:        "max-commit-difference",
			Usage:       "Exclude commits whose additions - deletions is above this value",
			Destination: &c.MaxCommitDifference,
			Sources:     cli.EnvVars("GREVOS_MAX_COMMIT_DIFFERENCE"),
		},
		&cli.IntFlag{
			Name:        "top-contributors",
			Usage:       "Only show the N authors with the highest difference, others are merged into " + types.OthersAuthor,
			Destination: &c.TopContributors,
			Sources:     cli.EnvVars("GREVOS_TOP_CONTRIBUTORS"),
		},
		&cli.StringSliceFlag{
			Name:        "authors",
			Aliases:     []string{"a"},
			Usage:       "Only show these authors, others are merged into " + types.OthersAuthor,
			Destination: &c.Authors,
			Sources:     cli.EnvVars("GREVOS_AUTHORS"),
		},
	}
}

// Filter returns the commit filter. Bounds are only applied when their flag is set.
func (c *Filter) Filter(cmd *cli.Command) model.Filter {
	var filter model.Filter
	if cmd.IsSet("min-commit-difference") {
		v := c.MinCommitDifference
		filter.MinDifference = &v
	}
	if cmd.IsSet("max-commit-difference") {
		v := c.MaxCommitDifference
		filter.MaxDifference = &v
	}
	return filter
}

// Selection returns the author selection
func (c *Filter) Selection(cmd *cli.Command) (model.Selection, error) {
	if cmd.IsSet("top-contributors") && c.TopContributors < 1 {
		return model.Selection{}, goerr.New("--top-contributors must be at least 1",
			goerr.V("top_contributors", c.TopContributors),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
	return model.Selection{
		TopN:    c.TopContributors,
		Authors: c.Authors,
	}, nil
}
