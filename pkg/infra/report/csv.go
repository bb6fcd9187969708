package report

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// DefaultCSVDateFormat is the layout of the date column
const DefaultCSVDateFormat = "01/02/2006 15:04:05"

// CSVWriter writes the chronological report rows to
// "<dir>/<base>_<YYYYmmddHHMMSS>.csv"
type CSVWriter struct {
	dir        string
	base       string
	dateFormat string
}

// NewCSVWriter creates a CSVWriter. An empty date format selects DefaultCSVDateFormat.
func NewCSVWriter(dir, base, dateFormat string) *CSVWriter {
	if dateFormat == "" {
		dateFormat = DefaultCSVDateFormat
	}
	return &CSVWriter{dir: dir, base: base, dateFormat: dateFormat}
}

// Path returns the file the report is written to
func (w *CSVWriter) Path(report *model.Report) string {
	return filepath.Join(w.dir, FileName(w.base, report.GeneratedAt, "csv"))
}

// Write creates the CSV file. Nothing is written for an empty report.
func (w *CSVWriter) Write(ctx context.Context, report *model.Report) error {
	if report.Empty() {
		ctxlog.From(ctx).Info("No commit to report, CSV file not generated")
		return nil
	}

	path := w.Path(report)
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, report, w.dateFormat); err != nil {
		return goerr.Wrap(err, "failed to write CSV report", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close CSV report", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Output file generated", "path", path)
	return nil
}

// WriteCSV writes one column per author and metric, TOTAL columns last, then
// the repository, SHA and URL of the commit. A row only fills the columns of
// its author and TOTAL.
func WriteCSV(out io.Writer, report *model.Report, dateFormat string) error {
	writer := csv.NewWriter(out)

	authors := append(append([]string{}, report.Authors...), types.TotalAuthor)
	position := make(map[string]int, len(authors))
	for i, author := range authors {
		position[author] = i
	}

	header := []string{"Date"}
	for _, author := range authors {
		for _, metric := range report.Metrics {
			header = append(header, author+" ("+string(metric)+")")
		}
	}
	header = append(header, "Repository", "Commit SHA", "Commit URL")
	if err := writer.Write(header); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	nbMetrics := len(report.Metrics)
	for _, row := range report.Rows {
		record := make([]string, len(header))
		record[0] = row.Timestamp.UTC().Format(dateFormat)

		col := 1 + position[row.Author]*nbMetrics
		for i, metric := range report.Metrics {
			record[col+i] = strconv.Itoa(metric.Value(row.RunningTotals))
		}

		col = 1 + position[types.TotalAuthor]*nbMetrics
		for i, metric := range report.Metrics {
			record[col+i] = strconv.Itoa(metric.Value(row.GrandTotal))
		}

		tail := len(header) - 3
		record[tail] = row.Owner + "/" + row.Repo + " (" + row.Branch + ")"
		record[tail+1] = row.SHA
		record[tail+2] = row.CommitURL

		if err := writer.Write(record); err != nil {
			return goerr.Wrap(err, "failed to write CSV row", goerr.V("sha", row.SHA))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV")
	}
	return nil
}
