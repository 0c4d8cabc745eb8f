package metalookup

import (
	"os"
	"path/filepath"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// FileSidecar looks for basename(path)+extension in each of locations
// (absolute paths are used as-is, relative ones are resolved against the
// ingested file's directory), parses the first one found with format,
// and returns its sole subject's metadata.
type FileSidecar struct {
	Locations []string
	Extension string
	Format    ParseFunc
	Schema    repository.Schema
}

// NewFileSidecar constructs a FileSidecar lookup.
func NewFileSidecar(locations []string, extension string, format ParseFunc, schema repository.Schema) *FileSidecar {
	return &FileSidecar{Locations: locations, Extension: extension, Format: format, Schema: schema}
}

func (s *FileSidecar) Get(path string, identifiers []string, require bool) (repository.MetadataNode, error) {
	dir := filepath.Dir(path)
	name := filepath.Base(path) + s.Extension

	for _, loc := range s.Locations {
		candidate := loc
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, candidate)
		}
		candidate = filepath.Join(candidate, name)

		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return repository.MetadataNode{}, err
		}

		g, err := s.Format(data, candidate)
		if err != nil {
			return repository.MetadataNode{}, err
		}
		subjects := g.Subjects()
		switch len(subjects) {
		case 0:
			continue
		case 1:
			return nodeFromGraph(g, subjects[0], s.Schema), nil
		default:
			return repository.MetadataNode{}, ingesterrors.ErrAmbiguousMetadata
		}
	}

	if require {
		return repository.MetadataNode{}, ingesterrors.ErrMetadataNotFound
	}
	node := repository.MetadataNode{}
	if len(identifiers) > 0 {
		node.Ids = []string{identifiers[0]}
	}
	return node, nil
}
