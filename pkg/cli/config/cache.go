package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/types"
	"github.com/pferrot/grevos/pkg/infra/cache"
	"github.com/urfave/cli/v3"
)

// Cache backends
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheBackendGCS    = "gcs"
	CacheBackendNone   = "none"
)

const sqliteFileName = "grevos.db"

// Cache holds commit cache configuration
type Cache struct {
	Backend       string
	Dir           string
	Bucket        string
	Prefix        string
	SchemaVersion int
}

// Flags returns CLI flags for cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-backend",
			Usage:       "Cache backend (file, sqlite, gcs, none)",
			Value:       CacheBackendFile,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("GREVOS_CACHE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Cache directory of the file and sqlite backends",
			Value:       "cache",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("GREVOS_CACHE_DIR"),
		},
		&cli.StringFlag{
			Name:        "cache-bucket",
			Usage:       "Cloud Storage bucket of the gcs backend",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("GREVOS_CACHE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "cache-prefix",
			Usage:       "Object name prefix of the gcs backend",
			Value:       "grevos",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("GREVOS_CACHE_PREFIX"),
		},
		&cli.IntFlag{
			Name:        "cache-schema-version",
			Usage:       "Version hashed into cache keys, change it to invalidate every entry",
			Value:       types.CacheSchemaVersion,
			Hidden:      true,
			Destination: &c.SchemaVersion,
			Sources:     cli.EnvVars("GREVOS_CACHE_SCHEMA_VERSION"),
		},
	}
}

// NewStore opens the configured store. It returns nil for the "none" backend.
func (c *Cache) NewStore(ctx context.Context) (interfaces.CacheStore, error) {
	switch c.Backend {
	case CacheBackendFile, "":
		return cache.NewFileStore(c.Dir)
	case CacheBackendSQLite:
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return nil, goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", c.Dir))
		}
		return cache.NewSQLiteStore(filepath.Join(c.Dir, sqliteFileName))
	case CacheBackendGCS:
		return cache.NewGCSStore(ctx, c.Bucket, c.Prefix)
	case CacheBackendNone:
		return nil, nil
	default:
		return nil, goerr.New("invalid cache backend",
			goerr.V("backend", c.Backend),
			goerr.T(types.ErrTagInvalidInput),
		)
	}
}
