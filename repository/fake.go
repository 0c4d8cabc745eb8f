package repository

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/pacer"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/google/uuid"
)

var _ Client = (*Fake)(nil)

// Fake is an in-memory Client used by tests and by the CLI when no real
// repository endpoint is configured. It enforces "any id matches" lookup,
// supports injected Conflict failures for retry-path tests, and
// implements Map with a real bounded worker pool (pacer.TokenDispenser)
// so concurrency is actually exercised.
type Fake struct {
	mu        sync.Mutex
	baseURL   string
	schema    Schema
	resources map[string]*RepoResource // keyed by URI
	binaries  map[string][]byte
	idIndex   map[string]string // id -> URI
	nextSeq   int
	txOpen    bool

	// conflictBudget holds, per URI, how many more UpdateMetadata/
	// UpdateContent calls on that URI fail with a retryable Conflict before
	// they succeed. Armed by InjectConflict.
	conflictBudget map[string]int
}

// NewFake builds an empty Fake with baseURL as GetBaseURL()'s return
// value and schema as GetSchema()'s return value.
func NewFake(baseURL string, schema Schema) *Fake {
	return &Fake{
		baseURL:        baseURL,
		schema:         schema,
		resources:      make(map[string]*RepoResource),
		binaries:       make(map[string][]byte),
		idIndex:        make(map[string]string),
		conflictBudget: make(map[string]int),
	}
}

// InjectConflict arms n Conflict failures for every UpdateMetadata or
// UpdateContent call touching uri, consumed one per call.
func (f *Fake) InjectConflict(uri string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conflictBudget[uri] = n
}

func (f *Fake) consumeConflict(uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictBudget[uri] > 0 {
		f.conflictBudget[uri]--
		return fmt.Errorf("Conflict: Owned by other request (%s)", uri)
	}
	return nil
}

func (f *Fake) GetBaseURL() string { return f.baseURL }

func (f *Fake) GetSchema(ctx context.Context) (Schema, error) { return f.schema, nil }

func (f *Fake) Begin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txOpen = true
	return nil
}

func (f *Fake) Commit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txOpen = false
	return nil
}

func (f *Fake) Rollback(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txOpen = false
	return nil
}

func (f *Fake) Prolong(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.txOpen {
		return fmt.Errorf("no open transaction to prolong")
	}
	return nil
}

func (f *Fake) nextURI() string {
	f.nextSeq++
	return fmt.Sprintf("%sres/%d", f.baseURL, f.nextSeq)
}

func (f *Fake) CreateResource(ctx context.Context, meta MetadataNode, binary io.Reader) (RepoResource, error) {
	if len(meta.Ids) == 0 {
		return RepoResource{}, fmt.Errorf("cannot create resource with no ids")
	}
	f.mu.Lock()
	uri := f.nextURI()
	res := &RepoResource{URI: uri, Meta: meta.Clone()}
	f.resources[uri] = res
	for _, id := range meta.Ids {
		f.idIndex[id] = uri
	}
	f.mu.Unlock()
	if binary != nil {
		data, err := io.ReadAll(binary)
		if err != nil {
			return RepoResource{}, err
		}
		f.mu.Lock()
		f.binaries[uri] = data
		f.mu.Unlock()
	}
	return *res, nil
}

func (f *Fake) GetResourceByID(ctx context.Context, ids []string) (RepoResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if uri, ok := f.idIndex[id]; ok {
			return *f.resources[uri], nil
		}
	}
	return RepoResource{}, ingesterrors.ErrNotFound
}

func (f *Fake) UpdateMetadata(ctx context.Context, res RepoResource, mode UpdateMode, meta MetadataNode) (RepoResource, error) {
	if err := f.consumeConflict(res.URI); err != nil {
		return RepoResource{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.resources[res.URI]
	if !ok {
		return RepoResource{}, ingesterrors.ErrNotFound
	}
	var merged MetadataNode
	if mode == Overwrite {
		merged = meta.Clone()
	} else {
		merged = current.Meta.Clone()
		mergeInto(&merged, meta)
	}
	// Reindex ids.
	for _, id := range current.Meta.Ids {
		delete(f.idIndex, id)
	}
	for _, id := range merged.Ids {
		f.idIndex[id] = res.URI
	}
	current.Meta = merged
	return *current, nil
}

// mergeInto layers incoming on top of base: non-zero scalar fields
// overwrite, Ids are unioned, and each incoming Props predicate replaces
// that predicate's object list (predicates absent from incoming are kept).
func mergeInto(base *MetadataNode, incoming MetadataNode) {
	if incoming.Label != "" {
		base.Label = incoming.Label
		base.LabelLang = incoming.LabelLang
	}
	if incoming.Parent != "" {
		base.Parent = incoming.Parent
	}
	if incoming.Type != "" {
		base.Type = incoming.Type
	}
	if incoming.BinarySize != 0 {
		base.BinarySize = incoming.BinarySize
	}
	if incoming.Mime != "" {
		base.Mime = incoming.Mime
	}
	if incoming.Hash != "" {
		base.Hash = incoming.Hash
	}
	if incoming.ModificationDate != "" {
		base.ModificationDate = incoming.ModificationDate
	}
	if incoming.Pid != "" {
		base.Pid = incoming.Pid
	}
	for _, id := range incoming.Ids {
		if !base.HasID(id) {
			base.Ids = append(base.Ids, id)
		}
	}
	if incoming.Props != nil {
		if base.Props == nil {
			base.Props = make(map[string][]rdfgraph.Term)
		}
		for p, objs := range incoming.Props {
			base.Props[p] = objs
		}
	}
}

func (f *Fake) UpdateContent(ctx context.Context, res RepoResource, binary io.Reader) (RepoResource, error) {
	if err := f.consumeConflict(res.URI); err != nil {
		return RepoResource{}, err
	}
	data, err := io.ReadAll(binary)
	if err != nil {
		return RepoResource{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.resources[res.URI]
	if !ok {
		return RepoResource{}, ingesterrors.ErrNotFound
	}
	f.binaries[res.URI] = data
	current.Meta.BinarySize = int64(len(data))
	return *current, nil
}

// Binary returns a resource's stored binary payload, for test assertions.
func (f *Fake) Binary(uri string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.binaries[uri]
	return b, ok
}

func (f *Fake) Delete(ctx context.Context, res RepoResource, withReferences, withChildren bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.resources[res.URI]
	if !ok {
		return ingesterrors.ErrNotFound
	}
	for _, id := range current.Meta.Ids {
		delete(f.idIndex, id)
	}
	delete(f.resources, res.URI)
	delete(f.binaries, res.URI)
	if withChildren {
		var children []string
		for uri, r := range f.resources {
			if r.Meta.Parent == res.URI {
				children = append(children, uri)
			}
		}
		for _, uri := range children {
			child := *f.resources[uri]
			f.mu.Unlock()
			_ = f.Delete(ctx, child, withReferences, withChildren)
			f.mu.Lock()
		}
	}
	if withReferences {
		for uri, r := range f.resources {
			if r.Meta.Parent == res.URI {
				r.Meta.Parent = ""
				f.resources[uri] = r
			}
		}
	}
	return nil
}

func (f *Fake) GetResourceBySearchTerms(ctx context.Context, terms SearchTerms) (ResourceIterator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := append([]SearchTerms{terms}, terms.Alt...)
	seen := make(map[string]bool)
	var matches []RepoResource
	for _, r := range f.resources {
		for _, t := range all {
			if f.matchesSearchTerm(*r, t) && !seen[r.URI] {
				seen[r.URI] = true
				matches = append(matches, *r)
				break
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].URI < matches[j].URI })
	return &sliceIterator{items: matches}, nil
}

// matchesSearchTerm matches against the schema's own parent predicate
// rather than a hardcoded name, so a caller building SearchTerms from
// Schema.ParentPredicate (as skosingest.RemoveObsolete does) always hits
// the same field the fake stores it in. Every other property is a plain
// lookup in the resource's generic Props map.
func (f *Fake) matchesSearchTerm(r RepoResource, t SearchTerms) bool {
	if t.Property == f.schema.ParentPredicate {
		return r.Meta.Parent == t.Value
	}
	for _, o := range r.Meta.Props[t.Property] {
		if o.Value() == t.Value {
			return true
		}
	}
	return false
}

type sliceIterator struct {
	items []RepoResource
	pos   int
}

func (it *sliceIterator) Next() (RepoResource, bool, error) {
	if it.pos >= len(it.items) {
		return RepoResource{}, false, nil
	}
	r := it.items[it.pos]
	it.pos++
	return r, true, nil
}

// Map applies op to every item with at most concurrency in-flight calls,
// using a pacer.TokenDispenser to bound concurrency, and preserves input
// order in the result slice.
func (f *Fake) Map(ctx context.Context, items []any, op MapFunc, concurrency int, reject RejectPolicy) []MapResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]MapResult, len(items))
	tokens := pacer.NewTokenDispenser(concurrency)
	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		tokens.Get()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer tokens.Put()
			v, err := op(item)
			results[i] = MapResult{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// NewDummyVidID generates a synthetic identifier under the schema's
// vid namespace, for FileTask.SpawnNewVersion.
func NewDummyVidID(schema Schema) string {
	ns := schema.VidNamespace
	if !strings.HasSuffix(ns, "/") && ns != "" {
		ns += "/"
	}
	return ns + uuid.NewString()
}
