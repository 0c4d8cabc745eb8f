package metalookup

import (
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// ParseFunc turns raw bytes (an RDF sidecar file, or a fragment parsed out
// of one) into a Graph, relative to baseURI for resolving relative IRIs.
// The real parser (Turtle/RDF-XML/JSON-LD) is external; callers inject
// whichever format.Parse their build links in.
type ParseFunc func(data []byte, baseURI string) (*rdfgraph.Graph, error)

// nodeFromGraph collects every triple whose subject is subj into a
// MetadataNode, routing the schema's well-known predicates into named
// fields and everything else into Props. Shared by FileSidecar and Graph.
func nodeFromGraph(g *rdfgraph.Graph, subj rdfgraph.Term, schema repository.Schema) repository.MetadataNode {
	var node repository.MetadataNode
	for _, t := range g.SubjectTriples(subj) {
		switch t.P {
		case schema.IDPredicate:
			node.Ids = append(node.Ids, t.O.Value())
		case schema.LabelPredicate:
			node.Label = t.O.Value()
			node.LabelLang = t.O.Lang()
		case schema.ParentPredicate:
			node.Parent = t.O.Value()
		case schema.HashPredicate:
			node.Hash = t.O.Value()
		case schema.PidPredicate:
			node.Pid = t.O.Value()
		case schema.ModDatePredicate:
			node.ModificationDate = t.O.Value()
		case schema.TypePredicate:
			node.Type = t.O.Value()
		default:
			node.AddProp(t.P, t.O)
		}
	}
	return node
}
