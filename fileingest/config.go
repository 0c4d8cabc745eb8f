// Package fileingest implements the File Ingester: a recursive directory
// walk feeding a retrying, bounded-concurrency upload pipeline built on
// filetask.Task.
package fileingest

import (
	"regexp"

	"github.com/acdh-oeaw/arche-ingest/filetask"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/metalookup"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// Config collects every FileIngester option.
type Config struct {
	Directory string
	IDPrefix  string

	FilterMatch *regexp.Regexp
	FilterSkip  *regexp.Regexp
	// Globs supplement FilterMatch/FilterSkip with doublestar glob
	// patterns checked against the basename.
	GlobMatch []string
	GlobSkip  []string

	FlatStructure    bool
	Depth            int
	IncludeEmptyDirs bool
	UploadSizeLimit  int64 // -1 = unlimited

	SkipMask       filetask.SkipMask
	VersioningMode filetask.VersioningMode
	PidPass        bool
	HashAlgo       string

	AutoCommit int

	MetaLookup        metalookup.Provider
	MetaLookupRequire bool

	CollectionClass string
	BinaryClass     string
	Parent          string

	ErrorMode   ingesterrors.ErrorMode
	Concurrency int
	Retries     int

	// NetworkErrorSleep is the fixed backoff applied after a chunk that
	// saw at least one retryable network error.
	NetworkErrorSleep int // seconds

	// ProlongInterval is how often a long walk calls Prolong() on the
	// open transaction, roughly every 10 seconds by default.
	ProlongInterval int // seconds

	ProgressID string

	// URINormalizer is run over every created node's metadata before
	// upload. Nil is a no-op.
	URINormalizer func(meta *repository.MetadataNode)
}

func defaultedConfig(c Config) Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.NetworkErrorSleep <= 0 {
		c.NetworkErrorSleep = 3
	}
	if c.ProlongInterval <= 0 {
		c.ProlongInterval = 10
	}
	if c.UploadSizeLimit == 0 {
		c.UploadSizeLimit = -1
	}
	return c
}
