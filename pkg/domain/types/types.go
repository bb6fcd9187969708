package types

import "github.com/m-mizutani/goerr/v2"

// Version is the application version, overridden at build time
var Version = "dev"

// Reserved author keys
const (
	// UnknownAuthor holds commits whose author login is not available
	UnknownAuthor = "<unknown>"
	// OthersAuthor aggregates all authors that are not individually visible
	OthersAuthor = "OTHERS"
	// TotalAuthor is the pseudo author spanning every commit of the report
	TotalAuthor = "TOTAL"
)

// IsReservedAuthor reports whether an author key clashes with a pseudo author
func IsReservedAuthor(author string) bool {
	return author == OthersAuthor || author == TotalAuthor
}

// CacheSchemaVersion is hashed into every cache key. Bump it when the
// serialized commit format changes so stale entries are ignored.
const CacheSchemaVersion = 1

// ExcludedSHASeparator separates SHAs in the last field of a repository line
const ExcludedSHASeparator = "-"

// SinceLayout is the layout of the "since" field of a repository line
const SinceLayout = "2006-01-02T15:04:05Z"

// Error tags
var (
	// ErrTagUpstream marks a non-success response from the commit history API
	ErrTagUpstream = goerr.NewTag("upstream")
	// ErrTagUnknownAuthor marks a commit whose author could not be resolved in strict mode
	ErrTagUnknownAuthor = goerr.NewTag("unknown_author")
	// ErrTagInvalidInput marks a malformed repository or mapping line, or an invalid option
	ErrTagInvalidInput = goerr.NewTag("invalid_input")
)
