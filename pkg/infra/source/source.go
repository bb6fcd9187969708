package source

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// readLines parses comma separated lines. Blank lines are skipped, field
// counts are validated by the caller.
func readLines(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var lines [][]string
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse line", goerr.T(types.ErrTagInvalidInput))
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		lines = append(lines, fields)
	}
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open file",
			goerr.V("path", path),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
	return f, nil
}
