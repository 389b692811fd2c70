// Package render turns layout trees into PDF bytes.
//
// The engine boundary is an asynchronous chunk stream: a closed channel is
// the end-of-stream signal, a chunk with Err set is a stream failure. The
// Adapter is the only consumer; it aggregates a stream into one contiguous
// binary or discards everything on failure.
package render

import (
	"context"
	"log/slog"
	"os"

	"github.com/starford/fehu/internal/layout"
)

// Chunk is one element of a render stream.
type Chunk struct {
	Data []byte
	Err  error
}

// Engine renders a layout tree into a byte-chunk stream.
type Engine interface {
	// Render starts an asynchronous render. The returned channel is closed
	// after the last chunk; a chunk with Err set aborts the stream. An
	// immediate error means the render never started.
	Render(ctx context.Context, doc *layout.Document) (<-chan Chunk, error)
}

// FontSet holds the file paths of the four-variant font family used for all
// documents. Paths are resolved once at process start.
type FontSet struct {
	Normal     string
	Bold       string
	Italic     string
	BoldItalic string
}

// variants returns the gofpdf style string for each configured path.
func (f FontSet) variants() map[string]string {
	return map[string]string{
		"":   f.Normal,
		"B":  f.Bold,
		"I":  f.Italic,
		"BI": f.BoldItalic,
	}
}

// Complete reports whether every variant file exists on disk. Missing files
// are logged as warnings; font problems are a configuration concern, never a
// request-time failure.
func (f FontSet) Complete(logger *slog.Logger) bool {
	ok := true
	for style, path := range f.variants() {
		if path == "" {
			ok = false
			continue
		}
		if _, err := os.Stat(path); err != nil {
			logger.Warn("font file not found, falling back to core fonts",
				slog.String("style", style), slog.String("path", path))
			ok = false
		}
	}
	return ok
}
