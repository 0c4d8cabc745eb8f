// Package pathenc detects the host filesystem's path encoding once per
// process and converts raw path bytes to UTF-8. The detection is
// compute-and-publish-once: the first caller triggers locale inspection,
// every later caller sees the published result.
package pathenc

import (
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/acdh-oeaw/arche-ingest/ingesterrors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	once     sync.Once
	detected encoding.Encoding
	detectErr error
)

// localeEncodingHints maps the charset token conventionally found at the
// end of a POSIX locale string (e.g. "en_US.ISO-8859-1") to a
// golang.org/x/text encoding. Tokens containing "UTF" (any case, e.g.
// "UTF-8"/"utf8") are treated as UTF-8 before this table is consulted;
// any other token not listed here makes detection fail with
// ErrPathEncodingUnknown.
var localeEncodingHints = map[string]encoding.Encoding{
	"ISO-8859-1": charmap.ISO8859_1,
	"ISO8859-1":  charmap.ISO8859_1,
	"LATIN1":     charmap.ISO8859_1,
	"ISO-8859-15": charmap.ISO8859_15,
	"CP1252":     charmap.Windows1252,
	"WINDOWS-1252": charmap.Windows1252,
}

// Detect returns the process's host path encoding, computing it from the
// LC_ALL/LC_CTYPE/LANG environment variables on first use. Unrecognised
// non-UTF-8 charset tokens yield ingesterrors.ErrPathEncodingUnknown; when
// that happens ToUTF8 falls back to passing bytes through as-is only if
// they already form valid UTF-8 (the heuristic from §4.1: "locale-derived;
// fall back to UTF-8").
func Detect() (encoding.Encoding, error) {
	once.Do(func() {
		locale := firstNonEmpty(os.Getenv("LC_ALL"), os.Getenv("LC_CTYPE"), os.Getenv("LANG"))
		detected, detectErr = fromLocale(locale)
	})
	return detected, detectErr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fromLocale(locale string) (encoding.Encoding, error) {
	if locale == "" {
		return unicode.UTF8, nil
	}
	idx := strings.LastIndexByte(locale, '.')
	if idx < 0 {
		return unicode.UTF8, nil
	}
	charset := strings.ToUpper(locale[idx+1:])
	if strings.Contains(charset, "UTF") {
		return unicode.UTF8, nil
	}
	if enc, ok := localeEncodingHints[charset]; ok {
		return enc, nil
	}
	return nil, ingesterrors.ErrPathEncodingUnknown
}

// ToUTF8 converts raw path bytes from the detected host encoding to UTF-8.
// If detection failed (unknown non-UTF-8 encoding), bytes that already
// form valid UTF-8 are passed through; otherwise the detection error is
// returned.
func ToUTF8(raw string) (string, error) {
	enc, err := Detect()
	if err != nil {
		if utf8.ValidString(raw) {
			return raw, nil
		}
		return "", err
	}
	if enc == unicode.UTF8 {
		return raw, nil
	}
	out, decErr := enc.NewDecoder().String(raw)
	if decErr != nil {
		if utf8.ValidString(raw) {
			return raw, nil
		}
		return "", decErr
	}
	return out, nil
}

// reset clears the once-guard; used only by tests that need to simulate a
// different locale.
func reset() {
	once = sync.Once{}
	detected = nil
	detectErr = nil
}
