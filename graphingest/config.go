// Package graphingest implements GraphIngester: importing an arbitrary
// RDF graph as repository resources, with id reconciliation and
// reference rewriting so object URIs that are really someone else's
// alternate id get resolved to that resource's canonical form.
package graphingest

import "github.com/acdh-oeaw/arche-ingest/ingesterrors"

// SingleOutNmsp selects what filter does with a property-less node whose
// sole id lies outside Namespace.
type SingleOutNmsp int

const (
	// SingleOutNmspSkip drops such nodes entirely.
	SingleOutNmspSkip SingleOutNmsp = iota
	// SingleOutNmspInclude keeps them.
	SingleOutNmspInclude
)

// Config collects GraphIngester's tuning knobs.
type Config struct {
	// IDPredicate overrides the schema's id predicate; empty uses the
	// Client's GetSchema() value.
	IDPredicate string
	Namespace   string
	SingleOutNmsp
	// Parent, when non-empty, is asserted as every top-level included
	// node's parent unless the node already carries one.
	Parent string

	AutoCommit int
	// ErrorMode is not consulted by Import: any error aborts the import,
	// whatever the mode.
	ErrorMode   ingesterrors.ErrorMode
	Concurrency int

	// NormalizeID applies the repository's id-standardization rules.
	// Nil is a no-op.
	NormalizeID func(string) string

	ProgressID string
}

func defaultedConfig(c Config) Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.NormalizeID == nil {
		c.NormalizeID = func(s string) string { return s }
	}
	return c
}
