package filetask

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/acdh-oeaw/arche-ingest/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nilLookup struct{}

func (nilLookup) Get(path string, identifiers []string, require bool) (repository.MetadataNode, error) {
	return repository.MetadataNode{}, nil
}

func testSchema() repository.Schema {
	return repository.Schema{
		IDPredicate:     "id",
		LabelPredicate:  "label",
		ParentPredicate: "parent",
		HashPredicate:   "hash",
		PidPredicate:    "pid",
		VidNamespace:    "vid:",
	}
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func recordFor(t *testing.T, path string, id string) repository.FileRecord {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return repository.FileRecord{
		Path: path,
		Info: info,
		Meta: repository.MetadataNode{Ids: []string{id}},
	}
}

func TestRunCreatesNewResource(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "a.txt", "hello")
	client := repository.NewFake("https://repo.example/", testSchema())

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
	}
	res, err := task.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.NotEmpty(t, res.Resource.URI)

	data, ok := client.Binary(res.Resource.URI)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
}

func TestRunSkipExist(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "a.txt", "hello")
	client := repository.NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	existing, err := client.CreateResource(ctx, repository.MetadataNode{Ids: []string{"https://id.example/a"}}, nil)
	require.NoError(t, err)

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
		Config: Config{SkipMask: SkipExist},
	}
	res, err := task.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Equal(t, existing.URI, res.Resource.URI)
}

func TestRunSkipNotExist(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "a.txt", "hello")
	client := repository.NewFake("https://repo.example/", testSchema())

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
		Config: Config{SkipMask: SkipNotExist},
	}
	res, err := task.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Empty(t, res.Resource.URI)
}

func TestRunUpdateMergesMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "a.txt", "hello")
	client := repository.NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	_, err := client.CreateResource(ctx, repository.MetadataNode{Ids: []string{"https://id.example/a"}, Label: "old"}, nil)
	require.NoError(t, err)

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
	}
	res, err := task.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, "old", res.Resource.Meta.Label)
}

func TestRunSpawnsNewVersionOnDigestChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "sample.xml", "<a/>")
	client := repository.NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	existing, err := client.CreateResource(ctx, repository.MetadataNode{
		Ids:  []string{"https://id.example/a", "https://repo.example/internal/a"},
		Hash: "md5:0000",
		Pid:  "https://pid.example/P",
	}, nil)
	require.NoError(t, err)

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
		Config: Config{VersioningMode: VersioningDigest, PidPass: true},
	}
	res, err := task.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSpawnedVersion, res.Outcome)
	assert.Equal(t, "https://pid.example/P", res.Resource.Meta.Pid)
	assert.NotEqual(t, existing.URI, res.Resource.URI)

	// The foreign id moved to the new version; the repo-internal id stays
	// on the old one.
	oldRes, err := client.GetResourceByID(ctx, []string{"https://repo.example/internal/a"})
	require.NoError(t, err)
	assert.Equal(t, existing.URI, oldRes.URI)
	assert.Empty(t, oldRes.Meta.Pid)
}

func TestRunVersioningNoneNeverSpawns(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "sample.xml", "<a/>")
	client := repository.NewFake("https://repo.example/", testSchema())
	ctx := context.Background()
	_, err := client.CreateResource(ctx, repository.MetadataNode{
		Ids:  []string{"https://id.example/a"},
		Hash: "md5:0000",
	}, nil)
	require.NoError(t, err)

	task := &Task{
		Record: recordFor(t, path, "https://id.example/a"),
		Client: client,
		Lookup: nilLookup{},
		Schema: testSchema(),
	}
	res, err := task.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
}
