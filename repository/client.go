package repository

import (
	"context"
	"io"
)

// Client is the Repository Client contract consumed by the ingesters.
// Transactions are process-wide and opaque: Begin/Commit/Rollback/Prolong
// operate on the single active transaction, there is no Transaction
// handle threaded through calls.
type Client interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Prolong(ctx context.Context) error

	// CreateResource returns the new RepoResource. binary may be nil for a
	// metadata-only resource.
	CreateResource(ctx context.Context, meta MetadataNode, binary io.Reader) (RepoResource, error)

	// GetResourceByID looks a resource up by any of ids matching its id
	// set ("any id matches"). Returns an error satisfying
	// errors.Is(err, ingesterrors.ErrNotFound) when none match.
	GetResourceByID(ctx context.Context, ids []string) (RepoResource, error)

	// GetResourceBySearchTerms streams every resource matching terms.
	GetResourceBySearchTerms(ctx context.Context, terms SearchTerms) (ResourceIterator, error)

	// UpdateMetadata applies meta to res under mode and returns the
	// updated RepoResource.
	UpdateMetadata(ctx context.Context, res RepoResource, mode UpdateMode, meta MetadataNode) (RepoResource, error)

	// UpdateContent replaces res's binary payload.
	UpdateContent(ctx context.Context, res RepoResource, binary io.Reader) (RepoResource, error)

	// Delete removes res. withReferences also strips triples elsewhere in
	// the repository pointing at res; withChildren recursively deletes
	// descendants (used by SkosIngester.RemoveObsolete).
	Delete(ctx context.Context, res RepoResource, withReferences, withChildren bool) error

	// Map applies op to every item in items with at most concurrency
	// in-flight calls, returning results aligned to input order.
	Map(ctx context.Context, items []any, op MapFunc, concurrency int, reject RejectPolicy) []MapResult

	// GetSchema returns the predicate URIs this Client was configured
	// with.
	GetSchema(ctx context.Context) (Schema, error)

	// GetBaseURL returns the prefix identifying repo-internal URIs, used
	// by FileTask.SpawnNewVersion to decide which ids stay on the old
	// resource.
	GetBaseURL() string
}
