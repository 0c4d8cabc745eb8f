package repository

import (
	"bytes"
	"context"
	"testing"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		IDPredicate:      "id",
		LabelPredicate:   "label",
		ParentPredicate:  "parent",
		HashPredicate:    "hash",
		PidPredicate:     "pid",
		ModDatePredicate: "modDate",
		VidNamespace:     "vid:",
	}
}

func TestFakeCreateAndGetByID(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	meta := MetadataNode{Ids: []string{"https://id.example/a"}, Label: "A"}
	res, err := f.CreateResource(ctx, meta, bytes.NewBufferString("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.URI)

	got, err := f.GetResourceByID(ctx, []string{"https://id.example/a"})
	require.NoError(t, err)
	assert.Equal(t, res.URI, got.URI)

	data, ok := f.Binary(res.URI)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
}

func TestFakeGetByIDNotFound(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	_, err := f.GetResourceByID(context.Background(), []string{"missing"})
	assert.ErrorIs(t, err, ingesterrors.ErrNotFound)
}

func TestFakeUpdateMetadataMerge(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	res, _ := f.CreateResource(ctx, MetadataNode{Ids: []string{"id1"}, Label: "old"}, nil)
	updated, err := f.UpdateMetadata(ctx, res, Merge, MetadataNode{Label: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Meta.Label)
	assert.True(t, updated.Meta.HasID("id1"))
}

func TestFakeConflictInjectionThenSuccess(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	res, _ := f.CreateResource(ctx, MetadataNode{Ids: []string{"id1"}}, nil)
	f.InjectConflict(res.URI, 2)

	_, err := f.UpdateMetadata(ctx, res, Merge, MetadataNode{Label: "x"})
	assert.Error(t, err)
	_, err = f.UpdateMetadata(ctx, res, Merge, MetadataNode{Label: "x"})
	assert.Error(t, err)
	_, err = f.UpdateMetadata(ctx, res, Merge, MetadataNode{Label: "x"})
	assert.NoError(t, err)
}

func TestFakeMapPreservesOrder(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	items := make([]any, 20)
	for i := range items {
		items[i] = i
	}
	results := f.Map(context.Background(), items, func(item any) (any, error) {
		return item.(int) * 2, nil
	}, 4, RejectInclude)
	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, i*2, r.Value)
	}
}

func TestFakeDeleteWithChildren(t *testing.T) {
	f := NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	parent, _ := f.CreateResource(ctx, MetadataNode{Ids: []string{"parent"}}, nil)
	child, _ := f.CreateResource(ctx, MetadataNode{Ids: []string{"child"}, Parent: parent.URI}, nil)

	err := f.Delete(ctx, parent, false, true)
	require.NoError(t, err)
	_, err = f.GetResourceByID(ctx, []string{"child"})
	assert.Error(t, err)
	_ = child
}

func TestNewDummyVidID(t *testing.T) {
	schema := testSchema()
	id1 := NewDummyVidID(schema)
	id2 := NewDummyVidID(schema)
	assert.NotEqual(t, id1, id2)
	assert.Contains(t, id1, "vid:")
}
