package repository

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
)

func TestFakePersistAndLoad(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	f := NewFake("https://repo.example/", schema)
	ctx := context.Background()

	res, err := f.CreateResource(ctx, MetadataNode{Ids: []string{"https://id.example/a"}, Label: "A"}, bytes.NewBufferString("payload"))
	require.NoError(t, err)

	require.NoError(t, f.Persist(dir))

	loaded, err := LoadFake(dir, "https://repo.example/", schema)
	require.NoError(t, err)

	got, err := loaded.GetResourceByID(ctx, []string{"https://id.example/a"})
	require.NoError(t, err)
	assert.Equal(t, res.URI, got.URI)
	assert.Equal(t, "A", got.Meta.Label)

	data, ok := loaded.Binary(got.URI)
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))
}

func TestFakePersistAndLoadRoundTripsProps(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	f := NewFake("https://repo.example/", schema)
	ctx := context.Background()

	meta := MetadataNode{Ids: []string{"https://id.example/b"}, Label: "B"}
	meta.SetProp("https://vocabs.example/hasColor",
		rdfgraph.NamedNode("https://vocabs.example/red"),
		rdfgraph.LangLiteral("rouge", "fr"),
		rdfgraph.TypedLiteral("42", "https://www.w3.org/2001/XMLSchema#integer"),
	)
	res, err := f.CreateResource(ctx, meta, nil)
	require.NoError(t, err)

	require.NoError(t, f.Persist(dir))

	loaded, err := LoadFake(dir, "https://repo.example/", schema)
	require.NoError(t, err)

	got, err := loaded.GetResourceByID(ctx, []string{"https://id.example/b"})
	require.NoError(t, err)
	assert.Equal(t, res.URI, got.URI)

	objs := got.Meta.Props["https://vocabs.example/hasColor"]
	require.Len(t, objs, 3)
	assert.True(t, objs[0].IsNamedNode())
	assert.Equal(t, "https://vocabs.example/red", objs[0].Value())
	assert.True(t, objs[1].IsLiteral())
	assert.Equal(t, "rouge", objs[1].Value())
	assert.Equal(t, "fr", objs[1].Lang())
	assert.Equal(t, "42", objs[2].Value())
	assert.Equal(t, "https://www.w3.org/2001/XMLSchema#integer", objs[2].Datatype())
}

func TestFakePersistEmpty(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()
	f := NewFake("https://repo.example/", schema)
	require.NoError(t, f.Persist(dir))

	loaded, err := LoadFake(dir, "https://repo.example/", schema)
	require.NoError(t, err)
	_, err = loaded.GetResourceByID(context.Background(), []string{"anything"})
	assert.Error(t, err)
}
