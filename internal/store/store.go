// Package store persists generated artifacts with their metadata.
//
// Two backends exist: SQLite (default) and MongoDB, selected by config.
// Artifacts are immutable once written — the Provider deliberately has no
// update or delete operations.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
)

// PutInput is everything the caller supplies for one artifact. The store
// assigns the identifier, checksum, and creation time.
type PutInput struct {
	Filename    string
	ContentType string
	Data        []byte
	SourceData  json.RawMessage // only set for invoice-shaped documents
}

// Provider is the artifact store contract.
type Provider interface {
	// Put persists a new artifact atomically and returns its identifier.
	Put(ctx context.Context, in PutInput) (uuid.UUID, error)
	// Get returns a stored artifact or apperr.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
	// List returns metadata-only summaries, newest first. It never loads
	// binary payloads.
	List(ctx context.Context) ([]models.ArtifactSummary, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// ParseID validates a raw identifier before any lookup happens. A malformed
// identifier is apperr.ErrInvalidID, which is distinct from ErrNotFound.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", apperr.ErrInvalidID, raw)
	}
	return id, nil
}
