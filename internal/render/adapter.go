package render

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/layout"
)

// DefaultTimeout bounds one render-stream consumption.
const DefaultTimeout = 30 * time.Second

// Adapter aggregates an engine's chunk stream into one contiguous binary.
// Partial output is never returned: any stream failure or timeout discards
// everything accumulated so far.
type Adapter struct {
	engine  Engine
	timeout time.Duration
}

// NewAdapter wraps an engine. A non-positive timeout means DefaultTimeout.
func NewAdapter(engine Engine, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{engine: engine, timeout: timeout}
}

// Render runs the engine and blocks until the stream completes or fails.
func (a *Adapter) Render(ctx context.Context, doc *layout.Document) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	stream, err := a.engine.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRenderFailed, err)
	}

	var buf []byte
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", apperr.ErrRenderFailed, ctx.Err())
		case chunk, ok := <-stream:
			if !ok {
				return buf, nil
			}
			if chunk.Err != nil {
				return nil, fmt.Errorf("%w: %v", apperr.ErrRenderFailed, chunk.Err)
			}
			buf = append(buf, chunk.Data...)
		}
	}
}
