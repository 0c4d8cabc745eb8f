package fileingest

import (
	"context"
	"fmt"
	"time"

	"github.com/acdh-oeaw/arche-ingest/filetask"
	"github.com/acdh-oeaw/arche-ingest/ilog"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/metalookup"
	"github.com/acdh-oeaw/arche-ingest/pacer"
	"github.com/acdh-oeaw/arche-ingest/progress"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// FileIngester drives a recursive walk feeding a retrying,
// bounded-concurrency scheduler that resolves each file through a
// filetask.Task.
type FileIngester struct {
	Client repository.Client
	Config Config
	Meter  *progress.Meter
}

// New builds a FileIngester, filling in the documented defaults for any
// zero-valued tuning knob.
func New(client repository.Client, cfg Config) *FileIngester {
	return &FileIngester{Client: client, Config: defaultedConfig(cfg), Meter: progress.New()}
}

// pendingItem pairs a walk-produced FileRecord with how many times it has
// already been retried, so the scheduler can give up on it once it
// exceeds Config.Retries.
type pendingItem struct {
	record  repository.FileRecord
	retried int
}

// Import runs the full walk-then-upload pipeline and returns every
// RepoResource produced, in scheduling order: walk order within each
// chunk, with retried records after the first pass over them. Under
// ErrModeFail, a non-retryable error aborts immediately with a
// *ingesterrors.FatalError carrying the URIs already committed.
func (fi *FileIngester) Import(ctx context.Context) ([]repository.RepoResource, error) {
	cfg := fi.Config
	schema, err := fi.Client.GetSchema(ctx)
	if err != nil {
		return nil, err
	}

	if err := fi.Client.Begin(ctx); err != nil {
		return nil, err
	}

	records, err := walk(cfg, func() { _ = fi.Client.Prolong(ctx) })
	if err != nil {
		return nil, err
	}

	pending := make([]pendingItem, 0, len(records))
	for _, rec := range records {
		enriched, err := createFile(cfg, rec, schema)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingItem{record: enriched})
	}

	progressID := cfg.ProgressID
	if progressID == "" {
		progressID = "fileingest"
	}
	fi.Meter.Init(progressID, int64(len(pending)))

	var results []repository.RepoResource
	var committed []string
	summary := &ingesterrors.Summary{}
	chunkIndex := 0

	for len(pending) > 0 {
		chunkSize := cfg.AutoCommit
		if chunkSize <= 0 {
			chunkSize = len(pending)
			if max := 100 * cfg.Concurrency; max < chunkSize {
				chunkSize = max
			}
		}
		if chunkSize > len(pending) {
			chunkSize = len(pending)
		}
		chunk := pending[:chunkSize]
		pending = pending[chunkSize:]

		if cfg.AutoCommit > 0 && chunkIndex > 0 && (summary.Empty() || cfg.ErrorMode.AllowsAutocommit()) {
			if err := fi.Client.Commit(ctx); err != nil {
				return results, err
			}
			if err := fi.Client.Begin(ctx); err != nil {
				return results, err
			}
		}
		chunkIndex++

		items := make([]any, len(chunk))
		for i, it := range chunk {
			items[i] = it
		}

		mapResults := fi.Client.Map(ctx, items, func(item any) (any, error) {
			it := item.(pendingItem)
			task := &filetask.Task{
				Record: it.record,
				Client: fi.Client,
				Lookup: fi.metaLookup(),
				Schema: schema,
				Config: filetask.Config{
					SizeLimit:      cfg.UploadSizeLimit,
					SkipMask:       cfg.SkipMask,
					VersioningMode: cfg.VersioningMode,
					PidPass:        cfg.PidPass,
					ProgressID:     progressID,
					HashAlgo:       cfg.HashAlgo,
					LookupRequire:  cfg.MetaLookupRequire,
				},
			}
			res, err := task.Run(ctx)
			fi.Meter.Increment(progressID)
			ilog.Debugf(it.record.Path, "%s (%s)", res.Outcome, fi.Meter.Format(progressID, "{n}/{t} {p}%"))
			return res, err
		}, cfg.Concurrency, repository.RejectInclude)

		sawNetworkError := false
		for i, mr := range mapResults {
			if mr.Err == nil {
				res := mr.Value.(filetask.Result)
				if res.Resource.URI != "" {
					committed = append(committed, res.Resource.URI)
					if res.Outcome != filetask.OutcomeSkipped {
						results = append(results, res.Resource)
					}
				}
				continue
			}

			if ingesterrors.Retriable(mr.Err) {
				if !ingesterrors.IsConflict(mr.Err) {
					sawNetworkError = true
				}
				item := chunk[i]
				item.retried++
				if item.retried > cfg.Retries {
					err := fmt.Errorf("exceeded retry budget for %s: %w", item.record.Path, mr.Err)
					if !fi.routeError(ctx, cfg, summary, committed, err) {
						return results, &ingesterrors.FatalError{Cause: err, Committed: committed}
					}
					continue
				}
				pending = append(pending, item)
				continue
			}

			if !fi.routeError(ctx, cfg, summary, committed, mr.Err) {
				return results, &ingesterrors.FatalError{Cause: mr.Err, Committed: committed}
			}
		}

		if sawNetworkError {
			backoff := pacer.Fixed{Sleep: time.Duration(cfg.NetworkErrorSleep) * time.Second}
			time.Sleep(backoff.Calculate(pacer.State{}))
		}
	}

	if err := fi.Client.Commit(ctx); err != nil {
		return results, err
	}

	if !summary.Empty() {
		summary.Committed = committed
		return results, summary
	}
	return results, nil
}

// routeError applies the configured ErrorMode to a non-retryable error.
// It returns false when the caller should abort the whole import.
func (fi *FileIngester) routeError(ctx context.Context, cfg Config, summary *ingesterrors.Summary, committed []string, err error) bool {
	ilog.Errorf(nil, "non-retryable error: %v", err)
	switch cfg.ErrorMode {
	case ingesterrors.ErrModeFail:
		return false
	default:
		summary.Add(err.Error())
		return true
	}
}

func (fi *FileIngester) metaLookup() metalookup.Provider {
	if fi.Config.MetaLookup != nil {
		return fi.Config.MetaLookup
	}
	return metalookup.NewConstant(repository.MetadataNode{})
}
