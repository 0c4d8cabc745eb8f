package metalookup

import (
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
	lru "github.com/hashicorp/golang-lru/v2"
)

// graphCacheSize bounds the id->subject lookup cache so a very large
// in-graph ingest doesn't keep re-deriving memory proportional to the
// number of distinct lookups performed, without holding every id forever.
const graphCacheSize = 4096

// Graph looks metadata up inside an already-parsed RDF graph: at
// construction it asserts `subject idPredicate subject` for every
// non-blank subject with properties (so a node is always its own id
// candidate), then at lookup time resolves identifiers against
// idPredicate objects.
type Graph struct {
	g           *rdfgraph.Graph
	idPredicate string
	schema      repository.Schema
	cache       *lru.Cache[string, []rdfgraph.Term]
}

// NewGraph prepares g for lookups keyed by idPredicate. Augmentation
// happens once, here, not per lookup.
func NewGraph(g *rdfgraph.Graph, idPredicate string, schema repository.Schema) *Graph {
	for _, s := range g.Subjects() {
		if s.IsBlank() {
			continue
		}
		if len(g.SubjectTriples(s)) == 0 {
			continue
		}
		if !g.Has(s, idPredicate, s) {
			g.Add(s, idPredicate, s)
		}
	}
	cache, _ := lru.New[string, []rdfgraph.Term](graphCacheSize)
	return &Graph{g: g, idPredicate: idPredicate, schema: schema, cache: cache}
}

func (gl *Graph) subjectsForID(id string) []rdfgraph.Term {
	if subs, ok := gl.cache.Get(id); ok {
		return subs
	}
	subs := gl.g.SubjectsWithObject(gl.idPredicate, rdfgraph.NamedNode(id))
	gl.cache.Add(id, subs)
	return subs
}

func (gl *Graph) Get(path string, identifiers []string, require bool) (repository.MetadataNode, error) {
	seen := make(map[string]bool)
	var match rdfgraph.Term
	found := false
	for _, id := range identifiers {
		for _, subj := range gl.subjectsForID(id) {
			k := subj.String()
			if seen[k] {
				continue
			}
			seen[k] = true
			if found {
				return repository.MetadataNode{}, ingesterrors.ErrAmbiguousMetadata
			}
			match = subj
			found = true
		}
	}

	if !found {
		if require {
			return repository.MetadataNode{}, ingesterrors.ErrMetadataNotFound
		}
		node := repository.MetadataNode{}
		if len(identifiers) > 0 {
			node.Ids = []string{identifiers[0]}
		}
		return node, nil
	}
	return nodeFromGraph(gl.g, match, gl.schema), nil
}
