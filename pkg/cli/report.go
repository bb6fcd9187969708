package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/pferrot/grevos/pkg/cli/config"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
	reportinfra "github.com/pferrot/grevos/pkg/infra/report"
	"github.com/pferrot/grevos/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var (
		fileCfg   config.File
		inputCfg  config.Input
		cacheCfg  config.Cache
		fetchCfg  config.Fetch
		filterCfg config.Filter
		outputCfg config.Output
	)

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, inputCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)
	flags = append(flags, fetchCfg.Flags()...)
	flags = append(flags, filterCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Aggregate commit statistics and generate CSV and HTML reports",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := fileCfg.Apply(c); err != nil {
				return err
			}
			if err := outputCfg.Validate(c); err != nil {
				return err
			}
			selection, err := filterCfg.Selection(c)
			if err != nil {
				return err
			}

			repos, err := inputCfg.Repositories()
			if err != nil {
				return err
			}
			mapping, err := inputCfg.Mapping()
			if err != nil {
				return err
			}

			logger.Info("Starting grevos report",
				slog.String("file", inputCfg.File),
				slog.Int("repositories", len(repos)),
				slog.String("output_dir", outputCfg.Dir),
				slog.String("cache_backend", cacheCfg.Backend),
			)
			logger.Debug("Repositories loaded", slog.Any("repositories", repos))

			store, err := cacheCfg.NewStore(ctx)
			if err != nil {
				return err
			}
			if store != nil {
				defer func() {
					if err := store.Close(); err != nil {
						logger.Warn("Failed to close cache store", slog.Any("error", err))
					}
				}()
			}

			fetcher := usecase.NewFetcher(fetchCfg.ClientFactory(),
				usecase.WithCache(usecase.NewCommitCache(store, usecase.WithSchemaVersion(cacheCfg.SchemaVersion))),
				usecase.WithIgnoreFiles(inputCfg.IgnoreFiles),
				usecase.WithDetailConcurrency(fetchCfg.DetailConcurrency),
			)
			statsUC := usecase.NewStats(fetcher,
				usecase.WithParallelRepos(fetchCfg.ParallelRepos),
				usecase.WithReportOptions(
					usecase.WithMetrics(outputCfg.Metrics()...),
					usecase.WithMaxPoints(outputCfg.MaxHTMLPoints),
				),
			)

			report, err := statsUC.Run(ctx, &model.StatsInput{
				Title:        reportinfra.Title(inputCfg.File),
				Repositories: repos,
				Mapping:      mapping,
				AllowUnknown: inputCfg.AllowUnknownAuthor,
				Filter:       filterCfg.Filter(c),
				Selection:    selection,
			})
			if err != nil {
				return err
			}

			if report.Empty() {
				logger.Warn("No commit found, no file generated")
				return nil
			}

			base := reportinfra.BaseName(inputCfg.File)
			csvWriter := reportinfra.NewCSVWriter(outputCfg.Dir, base, outputCfg.CSVDateFormat)
			htmlWriter := reportinfra.NewHTMLWriter(outputCfg.Dir, base)
			summary := reportinfra.NewSummaryWriter(os.Stdout, csvWriter.Path(report), htmlWriter.Path(report))

			for _, w := range []interfaces.ReportWriter{csvWriter, htmlWriter, summary} {
				if err := w.Write(ctx, report); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
