package skosingest

import (
	"strings"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
)

// entitySet is the SKOS work set threaded through every preprocess step:
// concepts, optionally collections, keyed by the term's rendered form so
// membership tests are cheap.
type entitySet map[string]rdfgraph.Term

func newEntitySet(terms ...rdfgraph.Term) entitySet {
	s := make(entitySet, len(terms))
	for _, t := range terms {
		s[t.Value()] = t
	}
	return s
}

func (s entitySet) has(t rdfgraph.Term) bool { _, ok := s[t.Value()]; return ok }
func (s entitySet) remove(t rdfgraph.Term)   { delete(s, t.Value()) }
func (s entitySet) terms() []rdfgraph.Term {
	out := make([]rdfgraph.Term, 0, len(s))
	for _, t := range s {
		out = append(out, t)
	}
	return out
}

// enumerateConcepts returns every subject with skos:inScheme = vocabularyURL.
func enumerateConcepts(g *rdfgraph.Graph, vocabulary rdfgraph.Term) []rdfgraph.Term {
	return g.SubjectsWithObject(InScheme, vocabulary)
}

// enumerateCollections returns every skos:Collection/OrderedCollection subject.
func enumerateCollections(g *rdfgraph.Graph, typePredicate string) []rdfgraph.Term {
	var out []rdfgraph.Term
	out = append(out, g.SubjectsWithObject(typePredicate, rdfgraph.NamedNode(Collection))...)
	out = append(out, g.SubjectsWithObject(typePredicate, rdfgraph.NamedNode(OrderedCollection))...)
	return out
}

// exactMatchEdge is one X skos:exactMatch Y triple captured before
// mutation starts, so processExactMatches can walk the exactMatch graph
// even as it rewrites it.
type exactMatchEdge struct{ x, y rdfgraph.Term }

// processExactMatches applies cfg's exact-match mode to every
// skos:exactMatch edge, folding, dropping or literalizing it depending on
// whether the target falls inside or outside the entity set.
func processExactMatches(g *rdfgraph.Graph, entities entitySet, idPredicate string, cfg Config) {
	var edges []exactMatchEdge
	byX := make(map[string][]rdfgraph.Term)
	for _, t := range g.Triples() {
		if t.P != ExactMatch {
			continue
		}
		edges = append(edges, exactMatchEdge{x: t.S, y: t.O})
		byX[t.S.Value()] = append(byX[t.S.Value()], t.O)
	}

	removed := make(map[string]bool)
	for _, e := range edges {
		if removed[e.y.Value()] {
			continue
		}
		mode := cfg.ExactMatchNotInVocabulary
		if entities.has(e.y) {
			mode = cfg.ExactMatchInVocabulary
		}
		applyExactMatchMode(g, entities, idPredicate, e.x, e.y, mode, byX, removed)
	}
}

func applyExactMatchMode(g *rdfgraph.Graph, entities entitySet, idPredicate string, x, y rdfgraph.Term, mode RelationMode, byX map[string][]rdfgraph.Term, removed map[string]bool) {
	switch mode {
	case ModeKeep:
		return
	case ModeDrop:
		g.RemoveMatching(func(t rdfgraph.Triple) bool {
			return t.S.Equal(x) && t.P == ExactMatch && t.O.Equal(y)
		})
	case ModeLiteral:
		g.RemoveMatching(func(t rdfgraph.Triple) bool {
			return t.S.Equal(x) && t.P == ExactMatch && t.O.Equal(y)
		})
		g.Add(x, ExactMatch, rdfgraph.TypedLiteral(y.Value(), xsdAnyURI))
	case ModeMerge:
		foldExactMatchClosure(g, entities, idPredicate, x, y, byX, removed)
	}
}

// foldExactMatchClosure transitively folds y (and everything y
// exactMatches) into x: every other triple of the folded node is
// dropped, x gains `x idPredicate node`, and node leaves the entity set.
func foldExactMatchClosure(g *rdfgraph.Graph, entities entitySet, idPredicate string, x, seed rdfgraph.Term, byX map[string][]rdfgraph.Term, removed map[string]bool) {
	queue := []rdfgraph.Term{seed}
	for len(queue) > 0 {
		y := queue[0]
		queue = queue[1:]
		if removed[y.Value()] || y.Equal(x) {
			continue
		}
		removed[y.Value()] = true
		next := byX[y.Value()]
		g.RemoveMatching(func(t rdfgraph.Triple) bool { return t.S.Equal(y) })
		g.Add(x, idPredicate, y)
		entities.remove(y)
		queue = append(queue, next...)
	}
}

// processRelations applies the same KEEP/DROP/LITERAL modes as exactMatch,
// uniformly (no in/out-vocabulary distinction), to every other
// skos:semanticRelation* predicate.
func processRelations(g *rdfgraph.Graph, cfg Config) {
	for _, pred := range cfg.RelationPredicates {
		for _, t := range g.Triples() {
			if t.P != pred {
				continue
			}
			switch cfg.RelationMode {
			case ModeKeep:
				continue
			case ModeDrop:
				x, y, p := t.S, t.O, t.P
				g.RemoveMatching(func(c rdfgraph.Triple) bool {
					return c.S.Equal(x) && c.P == p && c.O.Equal(y)
				})
			case ModeLiteral:
				x, y, p := t.S, t.O, t.P
				g.RemoveMatching(func(c rdfgraph.Triple) bool {
					return c.S.Equal(x) && c.P == p && c.O.Equal(y)
				})
				g.Add(x, p, rdfgraph.TypedLiteral(y.Value(), xsdAnyURI))
			}
		}
	}
}

// assureTitles gives every entity lacking a label one, preferring the
// first matching titlePredicates source over a synthesized fallback.
func assureTitles(g *rdfgraph.Graph, entities entitySet, labelPredicate string, titlePredicates []string) {
	for _, subj := range entities.terms() {
		if len(g.Objects(subj, labelPredicate)) > 0 {
			continue
		}
		found := false
		for _, pred := range titlePredicates {
			objs := g.Objects(subj, pred)
			if len(objs) == 0 {
				continue
			}
			obj := objs[0]
			if obj.IsLiteral() && obj.Lang() == "" && obj.Datatype() == "" {
				obj = obj.WithLang("und")
			}
			g.Add(subj, labelPredicate, obj)
			found = true
			break
		}
		if !found {
			g.Add(subj, labelPredicate, rdfgraph.LangLiteral(synthesizeTitle(subj.Value()), "und"))
		}
	}
}

func synthesizeTitle(uri string) string {
	idx := strings.LastIndexAny(uri, "/#")
	if idx >= 0 && idx+1 < len(uri) {
		return uri[idx+1:]
	}
	return uri
}

// dropProperties removes predicates outside AllowedNamespaces, except
// id/label/rdf:type which are always kept.
func dropProperties(g *rdfgraph.Graph, entities entitySet, idPredicate, labelPredicate, typePredicate string, allowed []string) {
	if len(allowed) == 0 {
		return
	}
	keep := map[string]bool{idPredicate: true, labelPredicate: true, typePredicate: true}
	g.RemoveMatching(func(t rdfgraph.Triple) bool {
		if !entities.has(t.S) {
			return false
		}
		if keep[t.P] {
			return false
		}
		for _, ns := range allowed {
			if strings.HasPrefix(t.P, ns) {
				return false
			}
		}
		return true
	})
}

// assureLiterals recasts object-typed values outside the small exempt set
// as xsd:anyURI literals.
func assureLiterals(g *rdfgraph.Graph, entities entitySet, idPredicate, parentPredicate, typePredicate string) {
	exempt := func(p string) bool {
		return p == idPredicate || p == parentPredicate || p == typePredicate || strings.HasPrefix(p, skosNS)
	}
	for _, t := range g.Triples() {
		if !entities.has(t.S) || !t.O.IsNamedNode() || exempt(t.P) {
			continue
		}
		x, p, y := t.S, t.P, t.O
		g.RemoveMatching(func(c rdfgraph.Triple) bool { return c.S.Equal(x) && c.P == p && c.O.Equal(y) })
		g.Add(x, p, rdfgraph.TypedLiteral(y.Value(), xsdAnyURI))
	}
}

// assureParents sets parentPredicate = vocabulary on every entity that
// doesn't already carry one.
func assureParents(g *rdfgraph.Graph, entities entitySet, vocabulary rdfgraph.Term, parentPredicate string) {
	for _, subj := range entities.terms() {
		if subj.Equal(vocabulary) {
			continue
		}
		if len(g.Objects(subj, parentPredicate)) > 0 {
			continue
		}
		g.Add(subj, parentPredicate, vocabulary)
	}
}

// dropNodes runs an explicit BFS from the entity set (plus the scheme
// itself), removing every triple whose subject was not reached.
func dropNodes(g *rdfgraph.Graph, entities entitySet, vocabulary rdfgraph.Term) {
	roots := append(entities.terms(), vocabulary)
	reachable := rdfgraph.BFSReachable(g, roots)
	g.RemoveMatching(func(t rdfgraph.Triple) bool {
		return !rdfgraph.Reachable(reachable, t.S)
	})
}
