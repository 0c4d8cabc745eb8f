package skosingest

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// FreshnessState classifies a vocabulary file against the repository's
// cached hash.
type FreshnessState int

const (
	StateNew FreshnessState = iota
	StateOK
	StateUpdate
)

func (s FreshnessState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateOK:
		return "OK"
	case StateUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// hashFile computes "<algo>:<hex>" over raw using the configured
// algorithm (default md5), matching the format stored under the schema's
// hash predicate.
func hashFile(raw []byte, algo string) string {
	var h hash.Hash
	switch algo {
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	default:
		algo = "md5"
		h = md5.New()
	}
	h.Write(raw)
	return fmt.Sprintf("%s:%s", algo, hex.EncodeToString(h.Sum(nil)))
}

// checkFreshness looks the scheme resource up by vocabularyURL and
// compares its stored hash to localHash.
func checkFreshness(ctx context.Context, client repository.Client, vocabularyURL, localHash string, forceUpdate bool) (FreshnessState, repository.RepoResource, error) {
	existing, err := client.GetResourceByID(ctx, []string{vocabularyURL})
	if err != nil {
		if err == ingesterrors.ErrNotFound {
			return StateNew, repository.RepoResource{}, nil
		}
		return StateNew, repository.RepoResource{}, err
	}
	if !forceUpdate && existing.Meta.Hash == localHash {
		return StateOK, existing, nil
	}
	return StateUpdate, existing, nil
}
