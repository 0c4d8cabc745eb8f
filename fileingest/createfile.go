package fileingest

import (
	"path/filepath"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/fileid"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// createFile enriches rec's metadata: derives the id and sets
// fileName/rdf:type/parent/binarySize/mime before handing the record to
// filetask.Task.
func createFile(cfg Config, rec repository.FileRecord, schema repository.Schema) (repository.FileRecord, error) {
	id, err := fileid.Derive(rec.Path, cfg.Directory, cfg.IDPrefix)
	if err != nil {
		return repository.FileRecord{}, err
	}

	meta := repository.MetadataNode{Ids: []string{id}}
	meta.SetProp("fileName", rdfgraph.Literal(filepath.Base(rec.Path)))

	isDir := rec.IsDir()
	typeClass := cfg.BinaryClass
	if isDir {
		typeClass = cfg.CollectionClass
	}
	if typeClass != "" {
		meta.Type = typeClass
	}

	meta.Parent = parentFor(cfg, rec.Path, id)

	if !isDir {
		meta.BinarySize = rec.Info.Size()
		meta.Mime = guessMime(rec.Path)
	}

	if cfg.URINormalizer != nil {
		cfg.URINormalizer(&meta)
	}

	rec.Meta = meta
	return rec, nil
}

// parentFor implements the parent-assignment rule: direct children of the
// ingest root (or anything under FlatStructure) attach to cfg.Parent;
// everything else attaches to its containing directory's id.
func parentFor(cfg Config, path, id string) string {
	dir := normalizeSlashes(filepath.Dir(path))
	root := strings.TrimSuffix(normalizeSlashes(cfg.Directory), "/")
	if cfg.FlatStructure || dir == root {
		return cfg.Parent
	}
	return fileid.ParentID(id)
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
