package source

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// ReadMappingFile reads a key,author table at path. An empty path returns an empty table.
func ReadMappingFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ReadMapping(f)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid mapping file", goerr.V("path", path))
	}
	return table, nil
}

// ReadMapping parses "key,author" lines. Every line must hold exactly two fields.
func ReadMapping(r io.Reader) (map[string]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	table := make(map[string]string, len(lines))
	for i, fields := range lines {
		if len(fields) != 2 {
			return nil, goerr.New("mapping line must have exactly 2 fields",
				goerr.V("line", i+1),
				goerr.V("fields", len(fields)),
				goerr.T(types.ErrTagInvalidInput),
			)
		}
		table[fields[0]] = fields[1]
	}
	return table, nil
}

// LoadAuthorMapping reads the email and name mapping files
func LoadAuthorMapping(emailFile, nameFile string) (*model.AuthorMapping, error) {
	byEmail, err := ReadMappingFile(emailFile)
	if err != nil {
		return nil, err
	}
	byName, err := ReadMappingFile(nameFile)
	if err != nil {
		return nil, err
	}
	return model.NewAuthorMapping(byEmail, byName), nil
}
