// Package repository defines the Repository Client contract the ingesters
// consume plus a minimal data model and an in-memory Fake implementation
// used for tests. The real wire protocol, durability, authentication and
// transport security are out of scope; this package only has to compile
// and test the ingesters.
package repository

import (
	"os"
	"time"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
)

// MetadataNode is a subject node plus the set of triples whose subject is
// that node. Ids is the full set of alternate identifiers published under
// the configured id-predicate; identity for lookup is "any id matches".
type MetadataNode struct {
	Ids              []string
	Label            string
	LabelLang        string
	Parent           string
	Type             string
	BinarySize       int64
	Mime             string
	Hash             string
	ModificationDate string
	Pid              string
	// Props holds every other property as predicate -> ordered object
	// list, so GraphIngester/SkosIngester can manipulate arbitrary
	// triples without the struct knowing about every predicate.
	Props map[string][]rdfgraph.Term
}

// Clone returns a deep-enough copy of n: Ids and Props are copied so
// mutating the clone never affects the original (MetaLookup's Constant
// variant relies on this).
func (n MetadataNode) Clone() MetadataNode {
	c := n
	c.Ids = append([]string(nil), n.Ids...)
	if n.Props != nil {
		c.Props = make(map[string][]rdfgraph.Term, len(n.Props))
		for k, v := range n.Props {
			c.Props[k] = append([]rdfgraph.Term(nil), v...)
		}
	}
	return c
}

// HasID reports whether id is present in n's id set.
func (n MetadataNode) HasID(id string) bool {
	for _, existing := range n.Ids {
		if existing == id {
			return true
		}
	}
	return false
}

// WithID returns a copy of n with id appended if not already present.
func (n MetadataNode) WithID(id string) MetadataNode {
	if n.HasID(id) {
		return n
	}
	c := n.Clone()
	c.Ids = append(c.Ids, id)
	return c
}

// WithoutIDs returns a copy of n with every id for which drop returns true
// removed.
func (n MetadataNode) WithoutIDs(drop func(string) bool) MetadataNode {
	c := n.Clone()
	kept := c.Ids[:0:0]
	for _, id := range c.Ids {
		if !drop(id) {
			kept = append(kept, id)
		}
	}
	c.Ids = kept
	return c
}

// SetProp replaces the object list for predicate p.
func (n *MetadataNode) SetProp(p string, objs ...rdfgraph.Term) {
	if n.Props == nil {
		n.Props = make(map[string][]rdfgraph.Term)
	}
	n.Props[p] = objs
}

// AddProp appends to the object list for predicate p.
func (n *MetadataNode) AddProp(p string, obj rdfgraph.Term) {
	if n.Props == nil {
		n.Props = make(map[string][]rdfgraph.Term)
	}
	n.Props[p] = append(n.Props[p], obj)
}

// FileRecord is a filesystem entry bound to the MetadataNode derived for
// it, built once per walk entry.
type FileRecord struct {
	Path string
	Info os.FileInfo
	Meta MetadataNode
}

// IsDir reports whether the underlying filesystem entry is a directory.
func (r FileRecord) IsDir() bool { return r.Info != nil && r.Info.IsDir() }

// RepoResource is a handle returned by the Repository Client: a URI plus
// locally cached metadata (which may be stale relative to the server;
// callers re-fetch when freshness matters).
type RepoResource struct {
	URI  string
	Meta MetadataNode
}

// UpdateMode selects MERGE (add/replace only the given properties) or
// OVERWRITE (replace the whole description) semantics for UpdateMetadata.
type UpdateMode int

const (
	Merge UpdateMode = iota
	Overwrite
)

// SearchTerms is a minimal search-query value for
// GetResourceBySearchTerms; RemoveObsolete uses it to find all children of
// a SKOS scheme.
type SearchTerms struct {
	Property string
	Value    string
	// Alt allows an OR across more than one property (e.g.
	// skos:inScheme OR parent), matching §4.7 Import/removeObsolete.
	Alt []SearchTerms
}

// ResourceIterator streams RepoResources from a search query.
type ResourceIterator interface {
	Next() (RepoResource, bool, error)
}

// Schema carries the predicate URIs a Client implementation was
// configured with (spec Glossary): id/label/parent/hash/pid/
// modificationDate predicates and the ids namespace.
type Schema struct {
	IDPredicate         string
	LabelPredicate      string
	ParentPredicate     string
	HashPredicate       string
	PidPredicate        string
	ModDatePredicate    string
	TypePredicate       string
	IsNewVersionOf      string
	IsPrevVersionOf     string
	VidNamespace        string
}

// RejectPolicy controls how Map reports per-item failures.
type RejectPolicy int

const (
	// RejectInclude returns every error as a MapResult value, aligned to
	// input order, rather than aborting the whole Map call.
	RejectInclude RejectPolicy = iota
)

// MapFunc is applied to one item by Map.
type MapFunc func(item any) (any, error)

// MapResult is one entry of a Map call's result slice.
type MapResult struct {
	Value any
	Err   error
}

// now is the package's single time source, indirected so tests can freeze
// time without depending on a global clock library.
var now = time.Now
