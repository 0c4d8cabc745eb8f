// Package ingestconfig collects the flag-bindable configuration structs
// for each ingester: a struct with "flag:" tags per field, read by the
// CLI layer to register pflag flags, plus a ToIngesterConfig method
// converting into the ingester package's own Config type.
package ingestconfig

import (
	"fmt"
	"regexp"

	"github.com/acdh-oeaw/arche-ingest/fileingest"
	"github.com/acdh-oeaw/arche-ingest/filetask"
	"github.com/acdh-oeaw/arche-ingest/graphingest"
	"github.com/acdh-oeaw/arche-ingest/skosingest"
)

// FileIngestConfig binds FileIngester's options to CLI flags.
type FileIngestConfig struct {
	Directory string `flag:"directory" desc:"Root directory to walk"`
	IDPrefix  string `flag:"id-prefix" desc:"Prefix prepended to every derived file id"`

	FilterMatch string `flag:"filter-match" desc:"Regex basenames must match to be ingested"`
	FilterSkip  string `flag:"filter-skip" desc:"Regex basenames must not match"`
	GlobMatch   []string `flag:"glob-match" desc:"doublestar glob(s) basenames must match"`
	GlobSkip    []string `flag:"glob-skip" desc:"doublestar glob(s) basenames must not match"`

	FlatStructure    bool  `flag:"flat" desc:"Skip per-directory collection resources"`
	Depth            int   `flag:"depth" desc:"Max recursion depth, 0 = root entries only"`
	IncludeEmptyDirs bool  `flag:"include-empty-dirs" desc:"Create resources for empty directories"`
	UploadSizeLimit  int64 `flag:"upload-size-limit" desc:"Files at or above this size become metadata-only, -1 = unlimited"`

	SkipExist       bool `flag:"skip-exist" desc:"Skip files whose id already resolves to a resource"`
	SkipBinaryExist bool `flag:"skip-binary-exist" desc:"Skip upload when a binary payload already exists"`
	SkipNotExist    bool `flag:"skip-not-exist" desc:"Skip files with no existing resource"`

	VersioningMode string `flag:"versioning" desc:"none|always|digest|date"`
	PidPass        bool   `flag:"pid-pass" desc:"Move pids onto the new version instead of keeping them on the old one"`
	HashAlgo       string `flag:"hash-algo" desc:"md5|sha1|sha256"`

	AutoCommit int `flag:"autocommit" desc:"Commit-then-begin after N successfully processed resources, 0 = off"`

	CollectionClass string `flag:"collection-class" desc:"rdf:type asserted on directory resources"`
	BinaryClass     string `flag:"binary-class" desc:"rdf:type asserted on file resources"`
	Parent          string `flag:"parent" desc:"Optional root parent resource URI"`

	ErrorMode   string `flag:"error-mode" desc:"fail|pass|include|continue"`
	Concurrency int    `flag:"concurrency" desc:"Max in-flight repository requests"`
	Retries     int    `flag:"retries" desc:"Max re-injections per task"`

	NetworkErrorSleep int `flag:"network-error-sleep" desc:"Seconds to sleep after a chunk with a transient network error"`
	ProlongInterval   int `flag:"prolong-interval" desc:"Seconds between Prolong() calls during a long walk"`
}

// ToIngesterConfig compiles the CLI-facing struct into fileingest.Config,
// compiling regex flags and mapping string enums.
func (c FileIngestConfig) ToIngesterConfig() (fileingest.Config, error) {
	cfg := fileingest.Config{
		Directory:         c.Directory,
		IDPrefix:          c.IDPrefix,
		GlobMatch:         c.GlobMatch,
		GlobSkip:          c.GlobSkip,
		FlatStructure:     c.FlatStructure,
		Depth:             c.Depth,
		IncludeEmptyDirs:  c.IncludeEmptyDirs,
		UploadSizeLimit:   c.UploadSizeLimit,
		PidPass:           c.PidPass,
		HashAlgo:          c.HashAlgo,
		AutoCommit:        c.AutoCommit,
		CollectionClass:   c.CollectionClass,
		BinaryClass:       c.BinaryClass,
		Parent:            c.Parent,
		Concurrency:       c.Concurrency,
		Retries:           c.Retries,
		NetworkErrorSleep: c.NetworkErrorSleep,
		ProlongInterval:   c.ProlongInterval,
	}
	var err error
	if c.FilterMatch != "" {
		if cfg.FilterMatch, err = regexp.Compile(c.FilterMatch); err != nil {
			return cfg, err
		}
	}
	if c.FilterSkip != "" {
		if cfg.FilterSkip, err = regexp.Compile(c.FilterSkip); err != nil {
			return cfg, err
		}
	}

	cfg.SkipMask = filetask.SkipNone
	if c.SkipExist {
		cfg.SkipMask |= filetask.SkipExist
	}
	if c.SkipBinaryExist {
		cfg.SkipMask |= filetask.SkipBinaryExist
	}
	if c.SkipNotExist {
		cfg.SkipMask |= filetask.SkipNotExist
	}

	if cfg.VersioningMode, err = parseVersioningMode(c.VersioningMode); err != nil {
		return cfg, err
	}
	if cfg.ErrorMode, err = parseErrorMode(c.ErrorMode); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GraphIngestConfig binds GraphIngester's options to CLI flags.
type GraphIngestConfig struct {
	IDPredicate      string `flag:"id-predicate" desc:"Overrides the schema id predicate"`
	Namespace        string `flag:"namespace" desc:"Namespace for SingleOutNmsp filtering"`
	IncludeSingleOut bool   `flag:"include-single-out-namespace" desc:"Keep property-less nodes whose sole id is outside Namespace"`
	Parent           string `flag:"parent" desc:"Default parent for top-level included nodes"`

	AutoCommit  int    `flag:"autocommit" desc:"Commit-then-begin after N resources"`
	ErrorMode   string `flag:"error-mode" desc:"fail|pass|include|continue"`
	Concurrency int    `flag:"concurrency" desc:"Max in-flight repository requests"`
}

func (c GraphIngestConfig) ToIngesterConfig() (graphingest.Config, error) {
	cfg := graphingest.Config{
		IDPredicate: c.IDPredicate,
		Namespace:   c.Namespace,
		Parent:      c.Parent,
		AutoCommit:  c.AutoCommit,
		Concurrency: c.Concurrency,
	}
	if c.IncludeSingleOut {
		cfg.SingleOutNmsp = graphingest.SingleOutNmspInclude
	} else {
		cfg.SingleOutNmsp = graphingest.SingleOutNmspSkip
	}
	var err error
	if cfg.ErrorMode, err = parseErrorMode(c.ErrorMode); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SkosIngestConfig binds SkosIngester's options to CLI flags.
type SkosIngestConfig struct {
	VocabularyURL string `flag:"vocabulary-url" desc:"The skos:ConceptScheme URI"`
	HashAlgo      string `flag:"hash-algo" desc:"md5|sha1|sha256"`
	ForceUpdate   bool   `flag:"force-update" desc:"Re-ingest even if the cached hash matches"`

	ImportCollections bool `flag:"import-collections" desc:"Also enumerate skos:Collection/OrderedCollection subjects"`

	ExactMatchInVocabulary    string `flag:"exact-match-in-vocabulary" desc:"keep|drop|literal|merge"`
	ExactMatchNotInVocabulary string `flag:"exact-match-not-in-vocabulary" desc:"keep|drop|literal|merge"`
	RelationMode              string `flag:"relation-mode" desc:"keep|drop|literal"`

	TitlePredicates   []string `flag:"title-predicates" desc:"Ordered title-source predicates"`
	AllowedNamespaces []string `flag:"allowed-namespaces" desc:"Predicate namespace allow-list"`
	AssureParents     bool     `flag:"assure-parents" desc:"Add parent=vocabularyUrl on every non-scheme entity"`

	GraphIngestConfig

	Retries     int `flag:"retries" desc:"Max retries for removeObsolete deletes"`
	Concurrency int `flag:"delete-concurrency" desc:"Max in-flight removeObsolete deletes"`
}

func (c SkosIngestConfig) ToIngesterConfig() (skosingest.Config, error) {
	graphCfg, err := c.GraphIngestConfig.ToIngesterConfig()
	if err != nil {
		return skosingest.Config{}, err
	}
	cfg := skosingest.Config{
		VocabularyURL:     c.VocabularyURL,
		HashAlgo:          c.HashAlgo,
		ForceUpdate:       c.ForceUpdate,
		ImportCollections: c.ImportCollections,
		TitlePredicates:   c.TitlePredicates,
		AllowedNamespaces: c.AllowedNamespaces,
		AssureParents:     c.AssureParents,
		Graph:             graphCfg,
		Retries:           c.Retries,
		Concurrency:       c.Concurrency,
	}
	if cfg.ExactMatchInVocabulary, err = parseRelationMode(c.ExactMatchInVocabulary); err != nil {
		return cfg, err
	}
	if cfg.ExactMatchNotInVocabulary, err = parseRelationMode(c.ExactMatchNotInVocabulary); err != nil {
		return cfg, err
	}
	if c.RelationMode != "" {
		mode, err := parseRelationMode(c.RelationMode)
		if err != nil {
			return cfg, err
		}
		if mode == skosingest.ModeMerge {
			return cfg, fmt.Errorf("relation-mode does not support merge (only exact-match modes do)")
		}
		cfg.RelationMode = mode
	}
	return cfg, nil
}
