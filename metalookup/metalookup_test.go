package metalookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
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

func TestConstantIgnoresInputs(t *testing.T) {
	preset := repository.MetadataNode{Label: "preset"}
	c := NewConstant(preset)
	node, err := c.Get("/any/path", []string{"whatever"}, true)
	require.NoError(t, err)
	assert.Equal(t, "preset", node.Label)
}

func fakeTurtleParser(data []byte, baseURI string) (*rdfgraph.Graph, error) {
	// Minimal stand-in parser: one line "subject\tpredicate\tobject" per
	// triple, enough to exercise FileSidecar/Graph without a real Turtle
	// dependency in this test.
	g := rdfgraph.NewGraph()
	lines := splitLines(string(data))
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := splitTab(line)
		if len(parts) != 3 {
			continue
		}
		g.Add(rdfgraph.NamedNode(parts[0]), parts[1], rdfgraph.NamedNode(parts[2]))
	}
	return g, nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func splitTab(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func TestFileSidecarFindsMetadata(t *testing.T) {
	dir := t.TempDir()
	content := "https://id.example/a\thttps://vocabs.acdh.oeaw.ac.at/schema#label\tTitle\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt.meta"), []byte(content), 0o644))

	s := NewFileSidecar([]string{"."}, ".meta", fakeTurtleParser, testSchema())
	node, err := s.Get(filepath.Join(dir, "file.txt"), []string{"https://id.example/a"}, true)
	require.NoError(t, err)
	assert.Equal(t, "Title", node.Label)
}

func TestFileSidecarNotFoundRequired(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSidecar([]string{"."}, ".meta", fakeTurtleParser, testSchema())
	_, err := s.Get(filepath.Join(dir, "file.txt"), []string{"id"}, true)
	assert.ErrorIs(t, err, ingesterrors.ErrMetadataNotFound)
}

func TestFileSidecarNotFoundOptional(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSidecar([]string{"."}, ".meta", fakeTurtleParser, testSchema())
	node, err := s.Get(filepath.Join(dir, "file.txt"), []string{"https://id.example/fallback"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://id.example/fallback"}, node.Ids)
}

func TestFileSidecarAmbiguous(t *testing.T) {
	dir := t.TempDir()
	content := "https://id.example/a\tp\to1\nhttps://id.example/b\tp\to2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt.meta"), []byte(content), 0o644))

	s := NewFileSidecar([]string{"."}, ".meta", fakeTurtleParser, testSchema())
	_, err := s.Get(filepath.Join(dir, "file.txt"), []string{"x"}, true)
	assert.ErrorIs(t, err, ingesterrors.ErrAmbiguousMetadata)
}

func TestGraphLookupBySelfID(t *testing.T) {
	g := rdfgraph.NewGraph()
	g.Add(rdfgraph.NamedNode("https://id.example/a"), "label", rdfgraph.Literal("A"))

	schema := testSchema()
	gl := NewGraph(g, schema.IDPredicate, schema)
	node, err := gl.Get("", []string{"https://id.example/a"}, true)
	require.NoError(t, err)
	assert.Contains(t, node.Ids, "https://id.example/a")
}

func TestGraphLookupAmbiguous(t *testing.T) {
	g := rdfgraph.NewGraph()
	schema := testSchema()
	a := rdfgraph.NamedNode("https://id.example/a")
	b := rdfgraph.NamedNode("https://id.example/b")
	g.Add(a, "label", rdfgraph.Literal("A"))
	g.Add(b, "label", rdfgraph.Literal("B"))
	g.Add(a, schema.IDPredicate, rdfgraph.NamedNode("shared"))
	g.Add(b, schema.IDPredicate, rdfgraph.NamedNode("shared"))

	gl := NewGraph(g, schema.IDPredicate, schema)
	_, err := gl.Get("", []string{"shared"}, true)
	assert.ErrorIs(t, err, ingesterrors.ErrAmbiguousMetadata)
}

func TestGraphLookupNotFound(t *testing.T) {
	g := rdfgraph.NewGraph()
	schema := testSchema()
	gl := NewGraph(g, schema.IDPredicate, schema)
	_, err := gl.Get("", []string{"missing"}, true)
	assert.ErrorIs(t, err, ingesterrors.ErrMetadataNotFound)
}
