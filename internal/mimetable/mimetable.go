// Package mimetable holds the single mime<->extension mapping shared by the
// artifact writer (which derives a filename from a mime type) and the
// content store's findFile lookup (which must agree on that filename to
// resolve by prefix).
package mimetable

// FallbackExt is used whenever a mime type has no known extension.
const FallbackExt = "bin"

var mimeToExt = map[string]string{
	"image/png":          "png",
	"image/jpeg":         "jpg",
	"image/gif":          "gif",
	"image/webp":         "webp",
	"image/avif":         "avif",
	"image/svg+xml":      "svg",
	"image/bmp":          "bmp",
	"image/tiff":         "tiff",
	"text/html":          "html",
	"text/html;charset=utf-8": "html",
	"text/plain":         "txt",
	"text/plain;charset=utf-8": "txt",
	"text/css":           "css",
	"text/javascript":    "js",
	"application/javascript": "js",
	"application/json":   "json",
	"application/pdf":    "pdf",
	"application/pgp-signature": "asc",
	"model/gltf-binary":  "glb",
	"model/gltf+json":    "gltf",
	"audio/mpeg":         "mp3",
	"audio/wav":          "wav",
	"video/mp4":          "mp4",
	"video/webm":         "webm",
	"font/woff":          "woff",
	"font/woff2":         "woff2",
}

var extToMime map[string]string

func init() {
	extToMime = make(map[string]string, len(mimeToExt))
	for mime, ext := range mimeToExt {
		// Prefer the charset-free mime as the canonical reverse mapping.
		if existing, ok := extToMime[ext]; !ok || len(mime) < len(existing) {
			extToMime[ext] = mime
		}
	}
}

// ExtFor returns the filename extension for a mime type, or FallbackExt if
// the mime type is unknown.
func ExtFor(mime string) string {
	if ext, ok := mimeToExt[mime]; ok {
		return ext
	}
	return FallbackExt
}

// MimeFor returns the best-guess mime type for a filename extension, used
// when a file is found on disk without a master-index record to consult.
func MimeFor(ext string) string {
	if mime, ok := extToMime[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
