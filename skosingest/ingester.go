package skosingest

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/acdh-oeaw/arche-ingest/graphingest"
	"github.com/acdh-oeaw/arche-ingest/ilog"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/pacer"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// ParseFunc parses a vocabulary file's raw bytes into a graph, the same
// shape metalookup.ParseFunc uses for sidecar files.
type ParseFunc func(data []byte, baseURI string) (*rdfgraph.Graph, error)

// SkosIngester drives SKOS-specific preprocessing of a vocabulary graph,
// delegating the bulk upsert to GraphIngester, then pruning resources no
// longer present in the vocabulary.
type SkosIngester struct {
	Client repository.Client
	Config Config
}

// New builds a SkosIngester with tuning-knob defaults applied.
func New(client repository.Client, cfg Config) *SkosIngester {
	return &SkosIngester{Client: client, Config: defaultedConfig(cfg)}
}

// Import parses raw with parse, validates it carries exactly one
// skos:ConceptScheme subject, checks freshness against the repository's
// cached hash, and (unless the vocabulary is unchanged) preprocesses and
// upserts it, uploads the raw file as the scheme's binary payload, and
// removes resources no longer reachable from the vocabulary.
func (si *SkosIngester) Import(ctx context.Context, raw []byte, parse ParseFunc) ([]repository.RepoResource, error) {
	cfg := si.Config
	schema, err := si.Client.GetSchema(ctx)
	if err != nil {
		return nil, err
	}

	g, err := parse(raw, cfg.VocabularyURL)
	if err != nil {
		return nil, err
	}
	if err := validateSingleScheme(g, schema, cfg.VocabularyURL); err != nil {
		return nil, err
	}

	localHash := hashFile(raw, cfg.HashAlgo)
	state, existing, err := checkFreshness(ctx, si.Client, cfg.VocabularyURL, localHash, cfg.ForceUpdate)
	if err != nil {
		return nil, err
	}
	ilog.Infof(cfg.VocabularyURL, "freshness: %s", state)
	if state == StateOK {
		return []repository.RepoResource{existing}, nil
	}

	entities := newEntitySet(enumerateConcepts(g, rdfgraph.NamedNode(cfg.VocabularyURL))...)
	if cfg.ImportCollections {
		for _, c := range enumerateCollections(g, schema.TypePredicate) {
			entities[c.Value()] = c
		}
	}
	entities[cfg.VocabularyURL] = rdfgraph.NamedNode(cfg.VocabularyURL)

	preprocess(g, entities, schema, cfg)

	results, err := graphingest.New(si.Client, cfg.Graph).Import(ctx, g)
	if err != nil {
		return results, err
	}

	scheme, err := si.Client.GetResourceByID(ctx, []string{cfg.VocabularyURL})
	if err != nil {
		return results, err
	}
	scheme, err = si.Client.UpdateContent(ctx, scheme, bytes.NewReader(raw))
	if err != nil {
		return results, err
	}
	scheme, err = si.Client.UpdateMetadata(ctx, scheme, repository.Merge, repository.MetadataNode{Hash: localHash})
	if err != nil {
		return results, err
	}
	for i, r := range results {
		if r.URI == scheme.URI {
			results[i] = scheme
		}
	}

	imported := make([]string, 0, len(results))
	for _, r := range results {
		imported = append(imported, r.URI)
	}
	if err := si.RemoveObsolete(ctx, imported); err != nil {
		return results, err
	}
	return results, nil
}

// preprocess runs the exact-match folding, relation filtering, title/
// parent assurance and orphan-pruning passes; enumerating concepts and
// collections into entities already happened before this call.
func preprocess(g *rdfgraph.Graph, entities entitySet, schema repository.Schema, cfg Config) {
	processExactMatches(g, entities, schema.IDPredicate, cfg)
	processRelations(g, cfg)
	assureTitles(g, entities, schema.LabelPredicate, cfg.TitlePredicates)
	dropProperties(g, entities, schema.IDPredicate, schema.LabelPredicate, schema.TypePredicate, cfg.AllowedNamespaces)
	assureLiterals(g, entities, schema.IDPredicate, schema.ParentPredicate, schema.TypePredicate)
	if cfg.AssureParents {
		assureParents(g, entities, rdfgraph.NamedNode(cfg.VocabularyURL), schema.ParentPredicate)
	}
	dropNodes(g, entities, rdfgraph.NamedNode(cfg.VocabularyURL))
}

// validateSingleScheme enforces the precondition that the graph carries
// exactly one skos:ConceptScheme subject, and that it is vocabularyURL.
func validateSingleScheme(g *rdfgraph.Graph, schema repository.Schema, vocabularyURL string) error {
	subjects := g.SubjectsWithObject(schema.TypePredicate, rdfgraph.NamedNode(ConceptScheme))
	switch len(subjects) {
	case 0:
		return ingesterrors.ErrNoConceptScheme
	case 1:
		if subjects[0].Value() != vocabularyURL {
			return fmt.Errorf("%w: found %s, expected %s", ingesterrors.ErrNoConceptScheme, subjects[0].Value(), vocabularyURL)
		}
		return nil
	default:
		return ingesterrors.ErrMultipleConceptSchemes
	}
}

// RemoveObsolete deletes every child of the vocabulary (by skos:inScheme
// or parent) whose URI is not in imported, with bounded concurrency and
// retries.
func (si *SkosIngester) RemoveObsolete(ctx context.Context, imported []string) error {
	cfg := si.Config
	schema, err := si.Client.GetSchema(ctx)
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(imported))
	for _, uri := range imported {
		keep[uri] = true
	}

	iter, err := si.Client.GetResourceBySearchTerms(ctx, repository.SearchTerms{
		Property: InScheme,
		Value:    cfg.VocabularyURL,
		Alt: []repository.SearchTerms{
			{Property: schema.ParentPredicate, Value: cfg.VocabularyURL},
		},
	})
	if err != nil {
		return err
	}

	var obsolete []repository.RepoResource
	for {
		res, ok, err := iter.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !keep[res.URI] {
			obsolete = append(obsolete, res)
		}
	}
	if len(obsolete) == 0 {
		return nil
	}

	p := pacer.New(pacer.RetriesOption(cfg.Retries), pacer.MaxConnectionsOption(cfg.Concurrency))
	var wg sync.WaitGroup
	errs := make([]error, len(obsolete))
	for i, res := range obsolete {
		i, res := i, res
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Call(func() (bool, error) {
				err := si.Client.Delete(ctx, res, true, true)
				if err != nil && ingesterrors.Retriable(err) {
					return true, err
				}
				return false, err
			})
			if err != nil {
				errs[i] = fmt.Errorf("removing obsolete resource %s: %w", res.URI, err)
				return
			}
			ilog.Debugf(res.URI, "removed obsolete resource")
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
