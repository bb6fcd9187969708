package interfaces

import (
	"context"

	"github.com/pferrot/grevos/pkg/domain/model"
)

// StatsUseCase aggregates commit statistics of several repositories
type StatsUseCase interface {
	// Run fetches every repository and builds the report
	Run(ctx context.Context, input *model.StatsInput) (*model.Report, error)
}

// ReportWriter emits a finished report
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}
