package config

import (
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	githubinfra "github.com/pferrot/grevos/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// Fetch holds GitHub API access configuration
type Fetch struct {
	DetailConcurrency int
	ParallelRepos     int
	RequestsPerSecond float64
}

// Flags returns CLI flags for fetch configuration
func (c *Fetch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "detail-concurrency",
			Usage:       "Number of commit details fetched at once within a page",
			Value:       4,
			Destination: &c.DetailConcurrency,
			Sources:     cli.EnvVars("GREVOS_DETAIL_CONCURRENCY"),
		},
		&cli.IntFlag{
			Name:        "parallel-repos",
			Usage:       "Number of repositories fetched at once",
			Value:       1,
			Destination: &c.ParallelRepos,
			Sources:     cli.EnvVars("GREVOS_PARALLEL_REPOS"),
		},
		&cli.FloatFlag{
			Name:        "requests-per-second",
			Usage:       "Pace GitHub API requests per repository, 0 disables pacing",
			Destination: &c.RequestsPerSecond,
			Sources:     cli.EnvVars("GREVOS_REQUESTS_PER_SECOND"),
		},
	}
}

// ClientFactory creates GitHub clients honoring the pacing option
func (c *Fetch) ClientFactory() interfaces.GitHubClientFactory {
	return githubinfra.NewFactory(githubinfra.WithRequestsPerSecond(c.RequestsPerSecond))
}
