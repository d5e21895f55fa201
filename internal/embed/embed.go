// Package embed maps text to fixed-dimension vectors.
package embed

import (
	"context"
	"errors"
)

// ErrNoEmbedding is returned when the backend produces no vector for the input.
var ErrNoEmbedding = errors.New("embed: backend returned no embedding")

// Embedder maps text to a vector. Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
