package fileingest

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// guessMime prefers an extension table lookup, falling back to content
// sniffing when the extension is unknown.
func guessMime(path string) string {
	if m := mime.TypeByExtension(filepath.Ext(path)); m != "" {
		return m
	}
	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}
