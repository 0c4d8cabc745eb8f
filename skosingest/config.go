// Package skosingest implements SkosIngester: a SKOS vocabulary-specific
// preprocessing pass (exact-match folding, relation filtering, title/
// parent assurance, orphan pruning) that delegates the actual upsert to
// graphingest.GraphIngester.
package skosingest

import "github.com/acdh-oeaw/arche-ingest/graphingest"

const (
	skosNS = "http://www.w3.org/2004/02/skos/core#"

	ConceptScheme     = skosNS + "ConceptScheme"
	Concept           = skosNS + "Concept"
	Collection        = skosNS + "Collection"
	OrderedCollection = skosNS + "OrderedCollection"
	InScheme          = skosNS + "inScheme"
	ExactMatch        = skosNS + "exactMatch"
	PrefLabel         = skosNS + "prefLabel"
	AltLabel          = skosNS + "altLabel"

	xsdAnyURI = "http://www.w3.org/2001/XMLSchema#anyURI"
)

// defaultRelationPredicates lists the skos:semanticRelation* sub-
// properties processRelations applies its mode to: the hierarchical,
// associative and mapping relations, without exactMatch, which has its
// own dedicated handling.
var defaultRelationPredicates = []string{
	skosNS + "broader",
	skosNS + "narrower",
	skosNS + "related",
	skosNS + "broaderTransitive",
	skosNS + "narrowerTransitive",
	skosNS + "semanticRelation",
	skosNS + "closeMatch",
	skosNS + "broadMatch",
	skosNS + "narrowMatch",
	skosNS + "relatedMatch",
}

// RelationMode selects how processExactMatches/processRelations treat a
// matched triple.
type RelationMode int

const (
	ModeKeep RelationMode = iota
	ModeDrop
	ModeLiteral
	// ModeMerge is only meaningful for exactMatch; processRelations never
	// uses it.
	ModeMerge
)

// Config collects SkosIngester's tuning knobs.
type Config struct {
	VocabularyURL string
	HashAlgo      string
	ForceUpdate   bool

	ImportCollections bool

	ExactMatchInVocabulary    RelationMode
	ExactMatchNotInVocabulary RelationMode

	RelationPredicates []string
	RelationMode       RelationMode

	// TitlePredicates is the ordered title-source list consulted by
	// assureTitles when a node has no configured label.
	TitlePredicates []string

	// AllowedNamespaces restricts dropProperties; empty means no
	// restriction (every predicate kept).
	AllowedNamespaces []string

	AssureParents bool

	Graph graphingest.Config

	Retries     int
	Concurrency int
}

func defaultedConfig(c Config) Config {
	if len(c.RelationPredicates) == 0 {
		c.RelationPredicates = defaultRelationPredicates
	}
	if len(c.TitlePredicates) == 0 {
		c.TitlePredicates = []string{PrefLabel, AltLabel}
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	return c
}
