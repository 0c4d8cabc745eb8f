package main

import (
	"fmt"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
)

// parseTriples is a placeholder RDF reader: one "subject\tpredicate\tobject"
// triple per line, the object written as <uri>, "literal" or "literal"@lang.
// Real Turtle/RDF-XML/JSON-LD parsing is an external-collaborator surface
// left to whatever library a deployment wires in; this keeps ingest-graph
// and ingest-skos runnable against hand-written fixtures without one.
func parseTriples(data []byte) (*rdfgraph.Graph, error) {
	g := rdfgraph.NewGraph()
	for n, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 tab-separated fields, got %d", n+1, len(parts))
		}
		g.Add(rdfgraph.NamedNode(parts[0]), parts[1], parseTripleObject(parts[2]))
	}
	return g, nil
}

func parseTripleObject(s string) rdfgraph.Term {
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return rdfgraph.NamedNode(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, `"`) {
		if idx := strings.LastIndex(s, `"@`); idx > 0 {
			return rdfgraph.LangLiteral(s[1:idx], s[idx+2:])
		}
		return rdfgraph.Literal(strings.Trim(s, `"`))
	}
	return rdfgraph.NamedNode(s)
}
