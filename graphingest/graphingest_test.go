package graphingest

import (
	"context"
	"testing"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() repository.Schema {
	return repository.Schema{
		IDPredicate:    "https://vocabs.acdh.oeaw.ac.at/schema#id",
		LabelPredicate: "https://vocabs.acdh.oeaw.ac.at/schema#label",
	}
}

func buildSmallGraph() *rdfgraph.Graph {
	g := rdfgraph.NewGraph()
	a := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/a")
	b := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/b")
	g.Add(a, "https://vocabs.acdh.oeaw.ac.at/schema#label", rdfgraph.Literal("A"))
	g.Add(a, "knows", b)
	g.Add(b, "https://vocabs.acdh.oeaw.ac.at/schema#label", rdfgraph.Literal("B"))
	return g
}

func TestImportSmallGraphTwoResources(t *testing.T) {
	client := repository.NewFake("https://repo.example/", testSchema())
	gi := New(client, Config{Namespace: "https://id.acdh.oeaw.ac.at/", SingleOutNmsp: SingleOutNmspSkip, Concurrency: 2})

	results, err := gi.Import(context.Background(), buildSmallGraph())
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestImportSmallGraphIsIdempotent(t *testing.T) {
	client := repository.NewFake("https://repo.example/", testSchema())
	cfg := Config{Namespace: "https://id.acdh.oeaw.ac.at/", SingleOutNmsp: SingleOutNmspSkip, Concurrency: 2}

	first, err := New(client, cfg).Import(context.Background(), buildSmallGraph())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := New(client, cfg).Import(context.Background(), buildSmallGraph())
	require.NoError(t, err)
	require.Len(t, second, 2)

	firstURIs := map[string]bool{}
	for _, r := range first {
		firstURIs[r.URI] = true
	}
	for _, r := range second {
		assert.True(t, firstURIs[r.URI])
	}
}

func TestRewriteReferencesPointsAtCanonicalSubject(t *testing.T) {
	g := rdfgraph.NewGraph()
	schema := testSchema()
	a := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/a")
	altID := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/a-alt")
	c := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/c")
	g.Add(a, schema.IDPredicate, altID)
	g.Add(a, schema.LabelPredicate, rdfgraph.Literal("A"))
	g.Add(c, "references", altID)
	g.Add(c, schema.LabelPredicate, rdfgraph.Literal("C"))

	client := repository.NewFake("https://repo.example/", schema)
	gi := New(client, Config{Namespace: "https://id.acdh.oeaw.ac.at/"})
	_, err := gi.Import(context.Background(), g)
	require.NoError(t, err)

	objs := g.Objects(c, "references")
	require.Len(t, objs, 1)
	assert.Equal(t, a.Value(), objs[0].Value())
}

func TestSanitizeResourceRejectsBlankReference(t *testing.T) {
	g := rdfgraph.NewGraph()
	schema := testSchema()
	a := rdfgraph.NamedNode("https://id.acdh.oeaw.ac.at/a")
	g.Add(a, schema.IDPredicate, a)
	g.Add(a, "rel", rdfgraph.BlankNode("b1"))

	_, err := sanitizeResource(g, a, schema.IDPredicate, schema, Config{})
	assert.Error(t, err)
}
