package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// SummaryWriter prints the final totals of every visible author as a table
type SummaryWriter struct {
	out   io.Writer
	files []string
}

// NewSummaryWriter creates a SummaryWriter. files are listed after the table.
func NewSummaryWriter(out io.Writer, files ...string) *SummaryWriter {
	return &SummaryWriter{out: out, files: files}
}

// Write prints the summary
func (w *SummaryWriter) Write(ctx context.Context, report *model.Report) error {
	if report.Empty() {
		_, err := fmt.Fprintln(w.out, color.YellowString("No commit found"))
		return err
	}

	if _, err := fmt.Fprintln(w.out, RenderSummary(report)); err != nil {
		return err
	}

	if len(report.Hidden) > 0 {
		header := color.New(color.FgYellow, color.Bold).Sprintf("%s include %d authors:", types.OthersAuthor, len(report.Hidden))
		if _, err := fmt.Fprintf(w.out, "%s\n  %s\n", header, strings.Join(report.Hidden, "\n  ")); err != nil {
			return err
		}
	}

	for _, file := range w.files {
		if _, err := fmt.Fprintf(w.out, "%s %s\n", color.GreenString("Generated"), file); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary renders the final running totals of each author, TOTAL last
func RenderSummary(report *model.Report) string {
	final := make(map[string]model.RunningTotals, len(report.Authors))
	var grand model.RunningTotals
	for _, row := range report.Rows {
		final[row.Author] = row.RunningTotals
		grand = row.GrandTotal
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(report.Title)
	tbl.AppendHeader(table.Row{"Author", "Commits", "Additions", "Deletions", "Difference", "Total"})
	for _, author := range report.Authors {
		tbl.AppendRow(totalsRow(author, final[author]))
	}
	tbl.AppendFooter(totalsRow(types.TotalAuthor, grand))
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	return tbl.Render()
}

func totalsRow(author string, t model.RunningTotals) table.Row {
	return table.Row{
		author,
		humanize.Comma(int64(t.NbCommits)),
		humanize.Comma(int64(t.Additions)),
		humanize.Comma(int64(t.Deletions)),
		humanize.Comma(int64(t.Difference)),
		humanize.Comma(int64(t.Total)),
	}
}
