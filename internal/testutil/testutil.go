// Package testutil provides shared test helpers for stores and render engines.
package testutil

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/fehu/internal/layout"
	"github.com/starford/fehu/internal/render"
	"github.com/starford/fehu/internal/store"
)

// TestStore creates a temporary SQLite-backed artifact store that is
// automatically cleaned up.
func TestStore(t *testing.T) *store.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fehu-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// StaticEngine is an Engine that streams a fixed payload in two chunks.
type StaticEngine struct {
	Payload []byte
}

// Render implements render.Engine.
func (e *StaticEngine) Render(ctx context.Context, _ *layout.Document) (<-chan render.Chunk, error) {
	out := make(chan render.Chunk, 2)
	mid := len(e.Payload) / 2
	out <- render.Chunk{Data: e.Payload[:mid]}
	out <- render.Chunk{Data: e.Payload[mid:]}
	close(out)
	return out, nil
}

// FailingEngine emits one good chunk and then a stream failure.
type FailingEngine struct{}

// Render implements render.Engine.
func (e *FailingEngine) Render(ctx context.Context, _ *layout.Document) (<-chan render.Chunk, error) {
	out := make(chan render.Chunk, 2)
	out <- render.Chunk{Data: []byte("partial")}
	out <- render.Chunk{Err: errors.New("engine exploded")}
	close(out)
	return out, nil
}

// HangingEngine never emits anything; it exercises the adapter timeout.
type HangingEngine struct{}

// Render implements render.Engine.
func (e *HangingEngine) Render(ctx context.Context, _ *layout.Document) (<-chan render.Chunk, error) {
	return make(chan render.Chunk), nil
}
