// Package ingesterrors centralizes the error taxonomy shared by the file,
// graph and SKOS ingesters: sentinel values for routing/lookup signals and a
// Retry wrapper for errors the scheduler should re-enqueue.
package ingesterrors

import (
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors. Use errors.Is against these, never string compares.
var (
	// ErrNotFound is a routing signal from the repository client, not a
	// failure: it tells FileTask to Create rather than Update.
	ErrNotFound = errors.New("resource not found")

	// ErrMetadataNotFound is returned by a MetaLookup when require is true
	// and no metadata could be located.
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrAmbiguousMetadata is returned by a MetaLookup when more than one
	// candidate subject matches.
	ErrAmbiguousMetadata = errors.New("ambiguous metadata")

	// ErrWrongReference marks a blank-node object found where GraphIngester
	// requires a named node.
	ErrWrongReference = errors.New("wrong reference: blank node object")

	// ErrPathEncodingUnknown is raised by fileid/pathenc when the host path
	// encoding cannot be identified and is not UTF-8.
	ErrPathEncodingUnknown = errors.New("path encoding unknown")

	// ErrNoConceptScheme / ErrMultipleConceptSchemes mark SKOS
	// preconditions: a vocabulary file must carry exactly one
	// skos:ConceptScheme subject.
	ErrNoConceptScheme        = errors.New("no skos:ConceptScheme subject found")
	ErrMultipleConceptSchemes = errors.New("multiple skos:ConceptScheme subjects found")
)

// conflictPattern is contractual: it identifies the class of repository
// Conflict responses that are safe to retry. Keep it in sync with the
// target repository's wire behaviour.
var conflictPattern = regexp.MustCompile(`Resource \d+ locked|Transaction \d+ locked|Owned by other request|Lock not available|duplicate key value`)

// Retry wraps an error that the scheduler should re-enqueue the owning task
// for, carrying the original cause for logging and unwrapping.
type Retry struct {
	cause error
}

// NewRetry marks err as retryable. A nil err returns nil, so callers can
// wrap unconditionally: return NewRetry(err).
func NewRetry(err error) error {
	if err == nil {
		return nil
	}
	return &Retry{cause: err}
}

func (r *Retry) Error() string { return r.cause.Error() }

// Unwrap lets errors.Is/As see through the wrapper to the cause.
func (r *Retry) Unwrap() error { return r.cause }

// Cause matches the github.com/pkg/errors convention some dependencies
// still check for instead of errors.Unwrap.
func (r *Retry) Cause() error { return r.cause }

// Retriable reports whether err should be re-enqueued by the scheduler.
// An error is retriable if it was explicitly wrapped with NewRetry, or if
// its message (after walking Cause()/Unwrap() chains) matches the
// Conflict regex.
func Retriable(err error) bool {
	if err == nil {
		return false
	}
	var r *Retry
	if errors.As(err, &r) {
		return true
	}
	return IsConflict(err)
}

// IsConflict reports whether err's message, at any depth of its cause
// chain, matches the repository's retryable-Conflict pattern.
func IsConflict(err error) bool {
	for err != nil {
		if conflictPattern.MatchString(err.Error()) {
			return true
		}
		err = unwrapOnce(err)
	}
	return false
}

type causer interface {
	Cause() error
}

func unwrapOnce(err error) error {
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return errors.Unwrap(err)
}

// Summary accumulates messages and a committed-set marker for ErrorMode
// PASS: the caller continues on error but the import call still reports a
// single error at the end.
type Summary struct {
	Messages  []string
	Committed []string
}

func (s *Summary) Error() string {
	return fmt.Sprintf("%d error(s) during import: %v", len(s.Messages), s.Messages)
}

// Add appends a message to the summary.
func (s *Summary) Add(msg string) { s.Messages = append(s.Messages, msg) }

// Empty reports whether the summary has no recorded errors.
func (s *Summary) Empty() bool { return len(s.Messages) == 0 }

// FatalError is raised under ErrorMode FAIL. It carries the RepoResource
// URIs already committed at the time of the first non-retryable error, so
// the caller can reconcile state without re-querying the repository.
type FatalError struct {
	Cause     error
	Committed []string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal ingest error (committed=%d): %v", len(e.Committed), e.Cause)
}

func (e *FatalError) Unwrap() error { return e.Cause }
