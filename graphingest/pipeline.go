package graphingest

import (
	"regexp"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// removeLiteralIds deletes any triple asserting idPredicate with a
// literal object; defensive, ids are always IRIs.
func removeLiteralIds(g *rdfgraph.Graph, idPredicate string) {
	g.RemoveMatching(func(t rdfgraph.Triple) bool {
		return t.P == idPredicate && t.O.IsLiteral()
	})
}

// promoteUrisToIds asserts `subject idPredicate subject` for every
// non-blank subject, so URI-addressed nodes become searchable by id.
func promoteUrisToIds(g *rdfgraph.Graph, idPredicate string) {
	for _, s := range g.Subjects() {
		if s.IsBlank() {
			continue
		}
		if !g.Has(s, idPredicate, s) {
			g.Add(s, idPredicate, s)
		}
	}
}

// filter selects which subjects get imported as resources: any subject
// with at least one non-id triple is always included, and a property-less
// node with a single id is skipped unless that id is unclaimed elsewhere
// and either falls inside cfg.Namespace or SingleOutNmsp allows it.
func filter(g *rdfgraph.Graph, idPredicate string, cfg Config) []rdfgraph.Term {
	var included []rdfgraph.Term
	for _, s := range g.Subjects() {
		ids := g.Objects(s, idPredicate)
		if len(ids) == 0 {
			continue
		}
		nonIDProps := countNonIDTriples(g, s, idPredicate)
		if nonIDProps == 0 {
			if len(ids) == 1 && assignedElsewhere(g, idPredicate, ids[0], s) {
				continue
			}
			if len(ids) == 1 && cfg.SingleOutNmsp == SingleOutNmspSkip && !strings.HasPrefix(ids[0].Value(), cfg.Namespace) {
				continue
			}
		}
		included = append(included, s)
	}
	return included
}

func countNonIDTriples(g *rdfgraph.Graph, s rdfgraph.Term, idPredicate string) int {
	n := 0
	for _, t := range g.SubjectTriples(s) {
		if t.P != idPredicate {
			n++
		}
	}
	return n
}

// assignedElsewhere reports whether id is also asserted as the
// idPredicate object of some subject other than self.
func assignedElsewhere(g *rdfgraph.Graph, idPredicate string, id rdfgraph.Term, self rdfgraph.Term) bool {
	for _, other := range g.SubjectsWithObject(idPredicate, id) {
		if !other.Equal(self) {
			return true
		}
	}
	return false
}

// resolved captures the outcome of assureIds for one included subject:
// its repository handle (freshly created if it didn't exist) and the
// canonical URI other nodes should use when referring to any of its ids.
type resolved struct {
	subject  rdfgraph.Term
	resource repository.RepoResource
	ids      []string
	created  bool
}

var geonamesPattern = regexp.MustCompile(`^https?://(?:www\.)?geonames\.org/(\d+)`)

// standardizeGeonames rewrites a geonames.org object URI down to its
// canonical "http://www.geonames.org/<id>/" form.
func standardizeGeonames(t rdfgraph.Term) rdfgraph.Term {
	if !t.IsNamedNode() {
		return t
	}
	m := geonamesPattern.FindStringSubmatch(t.Value())
	if m == nil {
		return t
	}
	return rdfgraph.NamedNode("http://www.geonames.org/" + m[1] + "/")
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// stripNamespace derives a synthetic label from an id by stripping a
// configured namespace prefix.
func stripNamespace(id, namespace string) string {
	if namespace != "" && strings.HasPrefix(id, namespace) {
		return strings.TrimPrefix(id, namespace)
	}
	idx := strings.LastIndexByte(id, '/')
	if idx >= 0 && idx+1 < len(id) {
		return id[idx+1:]
	}
	return id
}
