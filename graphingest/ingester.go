package graphingest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/acdh-oeaw/arche-ingest/ilog"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/progress"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// GraphIngester drives a six-step pipeline against an already-parsed
// graph: strip literal ids, promote bare URIs to ids, filter subjects
// worth importing, assure a resource per subject, rewrite cross-
// references onto canonical subjects, then sanitize and upload metadata.
type GraphIngester struct {
	Client repository.Client
	Config Config
	Meter  *progress.Meter
}

// New builds a GraphIngester with tuning-knob defaults applied.
func New(client repository.Client, cfg Config) *GraphIngester {
	return &GraphIngester{Client: client, Config: defaultedConfig(cfg), Meter: progress.New()}
}

// Import runs the full pipeline and returns every RepoResource produced
// or reused, in subject order. Running Import twice on the same graph is
// idempotent: the id-based lookup in assureIds means no duplicate
// resources are created on a rerun.
func (gi *GraphIngester) Import(ctx context.Context, g *rdfgraph.Graph) ([]repository.RepoResource, error) {
	cfg := gi.Config
	schema, err := gi.Client.GetSchema(ctx)
	if err != nil {
		return nil, err
	}
	idPredicate := cfg.IDPredicate
	if idPredicate == "" {
		idPredicate = schema.IDPredicate
	}

	if err := gi.Client.Begin(ctx); err != nil {
		return nil, err
	}

	removeLiteralIds(g, idPredicate)
	promoteUrisToIds(g, idPredicate)
	included := filter(g, idPredicate, cfg)

	progressID := cfg.ProgressID
	if progressID == "" {
		progressID = "graphingest"
	}
	gi.Meter.Init(progressID, int64(len(included)))

	resolutions := make([]resolved, len(included))
	canonical := make(map[string]rdfgraph.Term)
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Concurrency)
	for i, subj := range included {
		i, subj := i, subj
		group.Go(func() error {
			ids := idsFor(g, subj, idPredicate, cfg.NormalizeID)
			res, created, err := gi.assureResource(gctx, subj, ids)
			if err != nil {
				return err
			}
			mu.Lock()
			resolutions[i] = resolved{subject: subj, resource: res, ids: ids, created: created}
			for _, id := range ids {
				canonical[id] = subj
			}
			mu.Unlock()
			gi.Meter.Increment(progressID)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	rewriteReferences(g, included, idPredicate, canonical)

	results := make([]repository.RepoResource, 0, len(resolutions))
	for i, r := range resolutions {
		meta, err := sanitizeResource(g, r.subject, idPredicate, schema, cfg)
		if err != nil {
			return results, err
		}
		updated, err := gi.Client.UpdateMetadata(ctx, r.resource, repository.Merge, meta)
		if err != nil {
			return results, err
		}
		results = append(results, updated)

		if cfg.AutoCommit > 0 && (i+1)%cfg.AutoCommit == 0 {
			if err := gi.Client.Commit(ctx); err != nil {
				return results, err
			}
			if err := gi.Client.Begin(ctx); err != nil {
				return results, err
			}
		}
	}

	if err := gi.Client.Commit(ctx); err != nil {
		return results, err
	}
	return results, nil
}

func idsFor(g *rdfgraph.Graph, subj rdfgraph.Term, idPredicate string, normalize func(string) string) []string {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	var ids []string
	for _, o := range g.Objects(subj, idPredicate) {
		ids = append(ids, normalize(o.Value()))
	}
	return ids
}

// assureResource looks the subject's ids up against the repository and
// creates a stub resource (a synthetic label, no other properties yet)
// when none exists.
func (gi *GraphIngester) assureResource(ctx context.Context, subj rdfgraph.Term, ids []string) (repository.RepoResource, bool, error) {
	res, err := gi.Client.GetResourceByID(ctx, ids)
	if err == nil {
		return res, false, nil
	}
	if err != ingesterrors.ErrNotFound {
		return repository.RepoResource{}, false, err
	}
	ilog.Debugf(subj, "no existing resource for %v, creating stub", ids)
	stub := repository.MetadataNode{Ids: ids, Label: stripNamespace(firstID(ids), "")}
	res, err = gi.Client.CreateResource(ctx, stub, nil)
	if err != nil {
		return repository.RepoResource{}, false, err
	}
	return res, true, nil
}

// rewriteReferences replaces, for every included node's non-id property
// objects, any object URI that is one of another node's ids with that
// node's canonical subject URI.
func rewriteReferences(g *rdfgraph.Graph, included []rdfgraph.Term, idPredicate string, canonical map[string]rdfgraph.Term) {
	for _, subj := range included {
		for _, t := range g.SubjectTriples(subj) {
			if t.P == idPredicate || !t.O.IsNamedNode() {
				continue
			}
			if canon, ok := canonical[t.O.Value()]; ok && !canon.Equal(t.O) {
				tr := t
				g.RemoveMatching(func(x rdfgraph.Triple) bool {
					return x.S.Equal(tr.S) && x.P == tr.P && x.O.Equal(tr.O)
				})
				g.Add(tr.S, tr.P, canon)
			}
		}
	}
}
