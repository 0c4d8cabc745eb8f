package ingestconfig

import (
	"fmt"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/filetask"
	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"github.com/acdh-oeaw/arche-ingest/skosingest"
)

func parseVersioningMode(s string) (filetask.VersioningMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return filetask.VersioningNone, nil
	case "always":
		return filetask.VersioningAlways, nil
	case "digest":
		return filetask.VersioningDigest, nil
	case "date":
		return filetask.VersioningDate, nil
	default:
		return 0, fmt.Errorf("unknown versioning mode %q", s)
	}
}

func parseErrorMode(s string) (ingesterrors.ErrorMode, error) {
	switch strings.ToLower(s) {
	case "", "fail":
		return ingesterrors.ErrModeFail, nil
	case "pass":
		return ingesterrors.ErrModePass, nil
	case "include":
		return ingesterrors.ErrModeInclude, nil
	case "continue":
		return ingesterrors.ErrModeContinue, nil
	default:
		return 0, fmt.Errorf("unknown error mode %q", s)
	}
}

func parseRelationMode(s string) (skosingest.RelationMode, error) {
	switch strings.ToLower(s) {
	case "", "keep":
		return skosingest.ModeKeep, nil
	case "drop":
		return skosingest.ModeDrop, nil
	case "literal":
		return skosingest.ModeLiteral, nil
	case "merge":
		return skosingest.ModeMerge, nil
	default:
		return 0, fmt.Errorf("unknown relation mode %q", s)
	}
}
