// Package filetask implements FileTask, the per-file state machine driving
// skip/update/new-version/create decisions against the Repository Client.
// FileIngester schedules one Task per FileRecord.
package filetask

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/ilog"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/metalookup"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// SkipMask is a bitmask of skip policies.
type SkipMask int

const (
	SkipNone SkipMask = 0
	// SkipExist skips any file whose id already resolves to a resource.
	SkipExist SkipMask = 1 << iota
	// SkipBinaryExist skips the whole task (no upload, no metadata update)
	// when the resource already exists and carries a binary payload.
	SkipBinaryExist
	// SkipNotExist skips any file with no existing resource (update-only
	// re-ingest).
	SkipNotExist
)

// Has reports whether flag is set in m.
func (m SkipMask) Has(flag SkipMask) bool { return m&flag != 0 }

// VersioningMode selects how versionCheck decides a file has changed.
type VersioningMode int

const (
	VersioningNone VersioningMode = iota
	VersioningDate
	VersioningDigest
	VersioningAlways
)

// Config carries the per-ingest parameters threaded into every Task.
type Config struct {
	SizeLimit      int64
	SkipMask       SkipMask
	VersioningMode VersioningMode
	PidPass        bool
	ProgressID     string
	// HashAlgo names the digest algorithm used for VersioningDigest and
	// for the stored hash-predicate value, e.g. "md5", "sha1", "sha256".
	HashAlgo string
	// LookupRequire is passed through as the `require` argument to the
	// MetaLookup: when true, an unmatched lookup fails with
	// ErrMetadataNotFound instead of returning an empty node.
	LookupRequire bool
}

// Outcome classifies how a Task resolved.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	OutcomeSpawnedVersion
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSpawnedVersion:
		return "spawned-version"
	default:
		return "unknown"
	}
}

// Task binds one FileRecord to the collaborators it needs to resolve
// itself against the repository.
type Task struct {
	Record repository.FileRecord
	Client repository.Client
	Lookup metalookup.Provider
	Schema repository.Schema
	Config Config
}

// Result is what Run reports back to the scheduler.
type Result struct {
	Outcome  Outcome
	Resource repository.RepoResource
}

// Run drives the skip/create/version/update decision to completion. A
// Conflict or transient-network error is returned wrapped with
// ingesterrors.NewRetry so the scheduler knows to re-enqueue; any other
// error is final.
func (t *Task) Run(ctx context.Context) (Result, error) {
	meta, err := t.Lookup.Get(t.Record.Path, t.Record.Meta.Ids, t.Config.LookupRequire)
	if err != nil {
		return Result{}, err
	}
	// Local metadata from the walk (type, parent, binary size...) takes
	// priority; metadata-provider fields fill in anything still unset.
	local := t.Record.Meta
	fillFromLookup(&local, meta)

	existing, lookupErr := t.Client.GetResourceByID(ctx, local.Ids)
	exists := lookupErr == nil
	if lookupErr != nil && lookupErr != ingesterrors.ErrNotFound {
		return Result{}, wrapRetryable(lookupErr)
	}

	hasBinary := exists && existing.Meta.BinarySize > 0
	if exists && (t.Config.SkipMask.Has(SkipExist) || (t.Config.SkipMask.Has(SkipBinaryExist) && hasBinary)) {
		ilog.Debugf(t.Record.Path, "skipped: exists and skip policy matches")
		return Result{Outcome: OutcomeSkipped, Resource: existing}, nil
	}
	if !exists && t.Config.SkipMask.Has(SkipNotExist) {
		ilog.Debugf(t.Record.Path, "skipped: does not exist and SKIP_NOT_EXIST set")
		return Result{Outcome: OutcomeSkipped}, nil
	}

	if !exists {
		res, err := t.create(ctx, local)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeCreated, Resource: res}, nil
	}

	if t.Config.VersioningMode != VersioningNone && !t.Record.IsDir() {
		changed, err := t.versionCheck(existing)
		if err != nil {
			return Result{}, err
		}
		if changed {
			res, err := t.spawnNewVersion(ctx, existing, local)
			if err != nil {
				return Result{}, err
			}
			return Result{Outcome: OutcomeSpawnedVersion, Resource: res}, nil
		}
	}

	res, err := t.update(ctx, existing, local)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeUpdated, Resource: res}, nil
}

// fillFromLookup copies label (with its language), parent, type, hash and
// pid from the MetaLookup result where the walk-derived metadata left them
// empty, and unions the id lists and properties. Other scalar fields are
// not copied.
func fillFromLookup(local *repository.MetadataNode, looked repository.MetadataNode) {
	if local.Label == "" {
		local.Label = looked.Label
		local.LabelLang = looked.LabelLang
	}
	if local.Parent == "" {
		local.Parent = looked.Parent
	}
	if local.Type == "" {
		local.Type = looked.Type
	}
	if local.Hash == "" {
		local.Hash = looked.Hash
	}
	if local.Pid == "" {
		local.Pid = looked.Pid
	}
	for _, id := range looked.Ids {
		if !local.HasID(id) {
			local.Ids = append(local.Ids, id)
		}
	}
	for p, objs := range looked.Props {
		if _, ok := local.Props[p]; ok {
			continue
		}
		if local.Props == nil {
			local.Props = make(map[string][]rdfgraph.Term)
		}
		local.Props[p] = objs
	}
}

func wrapRetryable(err error) error {
	if ingesterrors.IsConflict(err) {
		return ingesterrors.NewRetry(err)
	}
	if isNetworkTransient(err) {
		return ingesterrors.NewRetry(err)
	}
	return err
}

func isNetworkTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "EOF")
}

func (t *Task) create(ctx context.Context, meta repository.MetadataNode) (repository.RepoResource, error) {
	assureLabel(&meta, t.Record.Path)

	var body io.Reader
	if !t.Record.IsDir() && t.Record.Info != nil && (t.Config.SizeLimit <= 0 || t.Record.Info.Size() < t.Config.SizeLimit) {
		f, err := os.Open(t.Record.Path)
		if err != nil {
			return repository.RepoResource{}, err
		}
		defer f.Close()
		body = f
		meta.BinarySize = t.Record.Info.Size()
		if meta.Hash == "" {
			if h, err := computeHash(t.Record.Path, t.Config.HashAlgo); err == nil {
				meta.Hash = h
			}
		}
	}

	res, err := t.Client.CreateResource(ctx, meta, body)
	if err != nil {
		return repository.RepoResource{}, wrapRetryable(err)
	}
	return res, nil
}

// assureLabel sets label=filename (lang "und") when neither local nor
// remote metadata carries one.
func assureLabel(meta *repository.MetadataNode, path string) {
	if meta.Label != "" {
		return
	}
	meta.Label = baseName(path)
	meta.LabelLang = "und"
}

func baseName(path string) string {
	p := strings.ReplaceAll(path, `\`, "/")
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// update implements conditional content replacement followed by a
// metadata merge.
func (t *Task) update(ctx context.Context, existing repository.RepoResource, meta repository.MetadataNode) (repository.RepoResource, error) {
	res := existing
	if t.shouldUploadContent(existing) {
		f, err := os.Open(t.Record.Path)
		if err != nil {
			return repository.RepoResource{}, err
		}
		var uerr error
		res, uerr = t.Client.UpdateContent(ctx, existing, f)
		f.Close()
		if uerr != nil {
			return repository.RepoResource{}, wrapRetryable(uerr)
		}
		if meta.Hash == "" {
			if h, err := computeHash(t.Record.Path, t.Config.HashAlgo); err == nil {
				meta.Hash = h
			}
		}
	}
	res, err := t.Client.UpdateMetadata(ctx, res, repository.Merge, meta)
	if err != nil {
		return repository.RepoResource{}, wrapRetryable(err)
	}
	return res, nil
}

func (t *Task) shouldUploadContent(existing repository.RepoResource) bool {
	if t.Record.IsDir() || t.Record.Info == nil {
		return false
	}
	if t.Config.SizeLimit > 0 && t.Record.Info.Size() >= t.Config.SizeLimit {
		return false
	}
	if t.Config.SkipMask.Has(SkipBinaryExist) && existing.Meta.BinarySize > 0 {
		return false
	}
	return true
}

// versionCheck implements the three versioning-mode comparison strategies.
func (t *Task) versionCheck(existing repository.RepoResource) (bool, error) {
	switch t.Config.VersioningMode {
	case VersioningAlways:
		return true, nil
	case VersioningDate:
		if t.Record.Info == nil {
			return false, nil
		}
		local := t.Record.Info.ModTime().UTC().Format("2006-01-02T15:04:05")
		return local > existing.Meta.ModificationDate, nil
	case VersioningDigest:
		if existing.Meta.Hash == "" {
			return false, nil
		}
		parts := strings.SplitN(existing.Meta.Hash, ":", 2)
		if len(parts) != 2 {
			return false, nil
		}
		algo, remoteHex := parts[0], parts[1]
		localHex, err := computeDigestHex(t.Record.Path, algo)
		if err != nil {
			return false, err
		}
		return localHex != remoteHex, nil
	default:
		return false, nil
	}
}

// spawnNewVersion retires the existing resource's foreign ids onto a new
// resource, carrying over the pid per Config.PidPass and linking the two
// versions via isNewVersionOf/isPrevVersionOf.
func (t *Task) spawnNewVersion(ctx context.Context, old repository.RepoResource, newLocal repository.MetadataNode) (repository.RepoResource, error) {
	baseURL := t.Client.GetBaseURL()

	newMeta := newLocal.Clone()
	newMeta.Ids = nil

	reducedOld := old.Meta.Clone()
	reducedOld.Ids = nil

	for _, id := range old.Meta.Ids {
		if strings.HasPrefix(id, baseURL) {
			reducedOld.Ids = append(reducedOld.Ids, id)
			continue
		}
		newMeta.Ids = append(newMeta.Ids, id)
	}
	if t.Config.PidPass {
		if newMeta.Pid == "" {
			newMeta.Pid = old.Meta.Pid
		}
		reducedOld.Pid = ""
	} else {
		newMeta.Pid = ""
		reducedOld.Pid = old.Meta.Pid
	}

	reducedOld.Parent = ""
	reducedOld.Ids = append(reducedOld.Ids, repository.NewDummyVidID(t.Schema))

	setIsNewVersionOf(&newMeta, old.URI, t.Schema)
	assureLabel(&newMeta, t.Record.Path)

	if _, err := t.Client.UpdateMetadata(ctx, old, repository.Overwrite, reducedOld); err != nil {
		return repository.RepoResource{}, wrapRetryable(err)
	}

	var body io.Reader
	if !t.Record.IsDir() && t.Record.Info != nil && (t.Config.SizeLimit <= 0 || t.Record.Info.Size() < t.Config.SizeLimit) {
		f, err := os.Open(t.Record.Path)
		if err != nil {
			return repository.RepoResource{}, err
		}
		defer f.Close()
		body = f
		newMeta.BinarySize = t.Record.Info.Size()
		if h, err := computeHash(t.Record.Path, t.Config.HashAlgo); err == nil {
			newMeta.Hash = h
		}
	}

	newRes, err := t.Client.CreateResource(ctx, newMeta, body)
	if err != nil {
		return repository.RepoResource{}, wrapRetryable(err)
	}

	oldFinal := reducedOld.Clone()
	setIsPrevVersionOf(&oldFinal, newRes.URI, t.Schema)
	if _, err := t.Client.UpdateMetadata(ctx, old, repository.Overwrite, oldFinal); err != nil {
		return repository.RepoResource{}, wrapRetryable(err)
	}

	return newRes, nil
}

func setIsNewVersionOf(meta *repository.MetadataNode, oldURI string, schema repository.Schema) {
	p := schema.IsNewVersionOf
	if p == "" {
		p = "isNewVersionOf"
	}
	meta.SetProp(p, rdfgraph.NamedNode(oldURI))
}

func setIsPrevVersionOf(meta *repository.MetadataNode, newURI string, schema repository.Schema) {
	p := schema.IsPrevVersionOf
	if p == "" {
		p = "isPrevVersionOf"
	}
	meta.SetProp(p, rdfgraph.NamedNode(newURI))
}

func computeHash(path, algo string) (string, error) {
	h, err := computeDigestHex(path, algo)
	if err != nil {
		return "", err
	}
	if algo == "" {
		algo = "md5"
	}
	return fmt.Sprintf("%s:%s", algo, h), nil
}

func computeDigestHex(path, algo string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var h hash.Hash
	switch algo {
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	default:
		h = md5.New()
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
