package mimetype

import "regexp"

// Package mimetype holds the known extension/MIME-type mapping used by the
// upload validation gate. The table is fixed rather than read from the host
// so validation behaves the same on every platform.

// Pair associates a filename extension with its MIME type.
type Pair struct {
	Extension string
	MimeType  string
}

// table is the default extension -> MIME-type mapping. Extensions include
// the leading dot so they can be matched with strings.HasSuffix directly.
var table = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".json": "application/json",
	".xml":  "application/xml",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".html": "text/html",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// Lookup returns the MIME type registered for ext (with leading dot).
func Lookup(ext string) (string, bool) {
	mt, ok := table[ext]
	return mt, ok
}

// Matches returns every known (extension, MIME-type) pair whose MIME type
// matches the given pattern.
func Matches(pattern *regexp.Regexp) []Pair {
	pairs := make([]Pair, 0)
	for ext, mt := range table {
		if pattern.MatchString(mt) {
			pairs = append(pairs, Pair{Extension: ext, MimeType: mt})
		}
	}
	return pairs
}
