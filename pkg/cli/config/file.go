package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// File is an optional TOML or YAML file providing flag values. Keys are
// flag names; flags given on the command line or by environment win.
type File struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Configuration file (.toml, .yaml or .yml) with flag values",
			Destination: &c.Path,
			Sources:     cli.EnvVars("GREVOS_CONFIG"),
		},
	}
}

// Apply sets every flag of cmd that is present in the file and was not set otherwise
func (c *File) Apply(cmd *cli.Command) error {
	if c.Path == "" {
		return nil
	}

	values, err := LoadFile(c.Path)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if cmd.IsSet(key) {
			continue
		}
		if err := setFlag(cmd, key, values[key]); err != nil {
			return goerr.Wrap(err, "invalid configuration value",
				goerr.V("path", c.Path),
				goerr.V("key", key),
				goerr.T(types.ErrTagInvalidInput),
			)
		}
	}
	return nil
}

func setFlag(cmd *cli.Command, key string, value any) error {
	if list, ok := value.([]any); ok {
		for _, item := range list {
			if err := cmd.Set(key, fmt.Sprint(item)); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd.Set(key, fmt.Sprint(value))
}

// LoadFile decodes a TOML or YAML file into flag name/value pairs
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read configuration file", goerr.V("path", path))
	}

	values := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, goerr.Wrap(err, "failed to decode TOML configuration",
				goerr.V("path", path),
				goerr.T(types.ErrTagInvalidInput),
			)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, goerr.Wrap(err, "failed to decode YAML configuration",
				goerr.V("path", path),
				goerr.T(types.ErrTagInvalidInput),
			)
		}
	default:
		return nil, goerr.New("unsupported configuration file extension",
			goerr.V("path", path),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
	return values, nil
}
