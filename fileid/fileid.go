// Package fileid derives stable repository identifiers from filesystem
// paths: Derive(path, directory, idPrefix) is a pure, deterministic
// function, so repeated runs over an unchanged tree mint the same ids.
package fileid

import (
	"net/url"
	"strings"

	"github.com/acdh-oeaw/arche-ingest/pathenc"
)

// Derive computes the repository id for path, a filesystem entry located
// under directory, prefixed with idPrefix.
//
//  1. path is converted to UTF-8 via the detected host encoding; '\' is
//     treated as '/'.
//  2. suffix = path with the directory prefix stripped (directory is
//     normalized to end with '/').
//  3. suffix is percent-encoded, except '/' which is retained.
//  4. idPrefix (normalized to end with '/' when non-empty) + suffix is
//     returned.
func Derive(path, directory, idPrefix string) (string, error) {
	utf8Path, err := pathenc.ToUTF8(normalizeSeparators(path))
	if err != nil {
		return "", err
	}
	dir := normalizeSeparators(directory)
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	suffix := strings.TrimPrefix(utf8Path, dir)

	prefix := idPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + percentEncodeKeepSlash(suffix), nil
}

func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// percentEncodeKeepSlash percent-encodes every path segment independently
// so that literal '/' characters survive encoding.
func percentEncodeKeepSlash(suffix string) string {
	segments := strings.Split(suffix, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ParentID returns the id of the parent "directory" of id, defined as
// everything before the last literal '/' character in id considered after
// percent-encoding (so a '/' that only exists because it was encoded as
// "%2F" inside a segment is never treated as a split point).
func ParentID(id string) string {
	idx := strings.LastIndexByte(id, '/')
	if idx < 0 {
		return ""
	}
	return id[:idx]
}
