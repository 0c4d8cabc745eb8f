package graphingest

import (
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

const (
	rdfType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	foafPerson = "http://xmlns.com/foaf/0.1/Person"
	foafAgent  = "http://xmlns.com/foaf/0.1/Agent"
)

// sanitizeResource builds the MetadataNode for subj out of its non-id
// triples: geoname standardization, rejecting blank-node references,
// label assurance, foaf:Agent supertyping, and parent assignment.
func sanitizeResource(g *rdfgraph.Graph, subj rdfgraph.Term, idPredicate string, schema repository.Schema, cfg Config) (repository.MetadataNode, error) {
	typePredicate := schema.TypePredicate
	if typePredicate == "" {
		typePredicate = rdfType
	}

	var meta repository.MetadataNode
	meta.Ids = idsFor(g, subj, idPredicate, cfg.NormalizeID)

	isPerson := false
	isAgentAlready := false
	for _, t := range g.SubjectTriples(subj) {
		if t.P == idPredicate {
			continue
		}
		if t.O.IsBlank() {
			return repository.MetadataNode{}, ingesterrors.ErrWrongReference
		}
		obj := standardizeGeonames(t.O)

		switch t.P {
		case schema.LabelPredicate:
			meta.Label = obj.Value()
			meta.LabelLang = obj.Lang()
		case schema.ParentPredicate:
			meta.Parent = obj.Value()
		case typePredicate:
			meta.Type = obj.Value()
			if obj.Value() == foafPerson {
				isPerson = true
			}
			if obj.Value() == foafAgent {
				isAgentAlready = true
			}
			meta.AddProp(t.P, obj)
		default:
			meta.AddProp(t.P, obj)
		}
	}

	if meta.Label == "" {
		meta.Label = firstID(meta.Ids)
	}
	if isPerson && !isAgentAlready {
		meta.AddProp(typePredicate, rdfgraph.NamedNode(foafAgent))
	}
	if meta.Parent == "" && cfg.Parent != "" {
		meta.Parent = cfg.Parent
	}
	return meta, nil
}
