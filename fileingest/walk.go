package fileingest

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/acdh-oeaw/arche-ingest/repository"
)

// nowFunc is indirected so tests could freeze time if ever needed; not
// currently overridden.
var nowFunc = time.Now

// walk performs the recursive pre-order directory traversal. It returns
// every FileRecord that should be considered for ingest: files
// passing the match/skip filters, plus (when !FlatStructure) a directory
// record for any directory at level > 0 that had matching children or
// IncludeEmptyDirs is set. prolong is called roughly every
// ProlongInterval seconds of wall-clock walking time (callers pass a
// no-op when there is no open transaction to keep alive).
func walk(cfg Config, prolong func()) ([]repository.FileRecord, error) {
	var out []repository.FileRecord
	lastProlong := nowFunc()
	var visit func(dir string, level int) (hadMatch bool, err error)
	visit = func(dir string, level int) (bool, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return false, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		hadChildren := false
		for _, entry := range entries {
			if nowFunc().Sub(lastProlong).Seconds() >= float64(cfg.ProlongInterval) {
				prolong()
				lastProlong = nowFunc()
			}
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if level < cfg.Depth || cfg.Depth < 0 {
					childHad, err := visit(full, level+1)
					if err != nil {
						return hadChildren, err
					}
					if childHad {
						hadChildren = true
					}
				}
				continue
			}
			if !matchesFile(cfg, entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return hadChildren, err
			}
			out = append(out, repository.FileRecord{Path: full, Info: info})
			hadChildren = true
		}

		if level > 0 && !cfg.FlatStructure && (hadChildren || cfg.IncludeEmptyDirs) {
			info, err := os.Stat(dir)
			if err != nil {
				return hadChildren, err
			}
			out = append(out, repository.FileRecord{Path: dir, Info: info})
		}
		return hadChildren, nil
	}
	_, err := visit(cfg.Directory, 0)
	return out, err
}

// matchesFile applies FilterMatch/FilterSkip/GlobMatch/GlobSkip to a
// basename; they are never matched against the full path.
func matchesFile(cfg Config, name string) bool {
	if cfg.FilterSkip != nil && cfg.FilterSkip.MatchString(name) {
		return false
	}
	for _, g := range cfg.GlobSkip {
		if ok, _ := doublestar.Match(g, name); ok {
			return false
		}
	}
	if cfg.FilterMatch == nil && len(cfg.GlobMatch) == 0 {
		return true
	}
	if cfg.FilterMatch != nil && cfg.FilterMatch.MatchString(name) {
		return true
	}
	for _, g := range cfg.GlobMatch {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}
