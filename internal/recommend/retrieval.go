package recommend

import (
	"context"
	"fmt"
	"log"

	"book-recommender/backend/internal/embed"
	"book-recommender/backend/internal/model"
	"book-recommender/backend/internal/recommend/deps"
)

// DefaultCandidateCount is the K for nearest-neighbor queries.
const DefaultCandidateCount = 2

// Retriever embeds a description and queries the vector index for the
// top-K book documents.
type Retriever struct {
	embedder embed.Embedder
	index    deps.VectorIndex
	k        int
}

// NewRetriever creates a retriever. k <= 0 falls back to DefaultCandidateCount.
func NewRetriever(embedder embed.Embedder, index deps.VectorIndex, k int) *Retriever {
	if k <= 0 {
		k = DefaultCandidateCount
	}
	return &Retriever{embedder: embedder, index: index, k: k}
}

// SearchBooks returns up to K candidates in the index's nearest-first order.
// An empty result means "no candidates" and is not an error.
func (r *Retriever) SearchBooks(ctx context.Context, description string) ([]model.BookCandidate, error) {
	embedding, err := r.embedder.Embed(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("failed to embed description: %w", err)
	}

	result, err := r.index.Query(ctx, embedding, r.k)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	if len(result.Documents) == 0 || len(result.Metadatas) == 0 {
		log.Printf("[TOOL] search_books found no candidates")
		return nil, nil
	}

	// The index guarantees documents[i] corresponds to metadatas[i].
	n := len(result.Documents)
	if len(result.Metadatas) < n {
		n = len(result.Metadatas)
	}

	candidates := make([]model.BookCandidate, 0, n)
	for i := 0; i < n; i++ {
		meta := result.Metadatas[i]
		candidates = append(candidates, model.BookCandidate{
			Title:   metaString(meta, "title"),
			Author:  metaString(meta, "author"),
			Summary: result.Documents[i],
		})
	}

	log.Printf("[TOOL] search_books found %d candidates", len(candidates))
	return candidates, nil
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
