package metalookup

import "github.com/acdh-oeaw/arche-ingest/repository"

// Constant always returns a clone of a preset node, ignoring every input.
// Used in tests and for the simplest CLI invocations where one metadata
// template applies to an entire ingest.
type Constant struct {
	node repository.MetadataNode
}

// NewConstant wraps node for repeated lookups. node is cloned on
// construction so later mutation by the caller has no effect.
func NewConstant(node repository.MetadataNode) *Constant {
	return &Constant{node: node.Clone()}
}

func (c *Constant) Get(path string, identifiers []string, require bool) (repository.MetadataNode, error) {
	return c.node.Clone(), nil
}
