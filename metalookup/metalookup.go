// Package metalookup implements the MetaLookup capability: a strategy
// that, given a file path and a set of candidate identifiers, returns the
// MetadataNode to attach to that path's repository resource. FileTask
// holds one MetaLookup per ingest and calls it once per file.
package metalookup

import (
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// Provider is the MetaLookup contract. require controls whether an
// unmatched lookup is an error (ErrMetadataNotFound) or a silent empty
// node bound to identifiers[0].
type Provider interface {
	Get(path string, identifiers []string, require bool) (repository.MetadataNode, error)
}
