// Package deps declares the collaborator seams of the recommendation engine.
package deps

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"book-recommender/backend/internal/model"
	"book-recommender/backend/internal/vectorstore"
)

// ChatCompleter abstracts the chat-completion backend.
// *openai.Client satisfies it directly.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// TopicGate classifies whether a message is about books.
type TopicGate interface {
	IsBookRelated(ctx context.Context, message string) (bool, error)
}

// BookSearcher retrieves candidate books for a free-text description,
// nearest first.
type BookSearcher interface {
	SearchBooks(ctx context.Context, description string) ([]model.BookCandidate, error)
}

// SummaryStore looks up a stored summary by exact title match.
type SummaryStore interface {
	SummaryByTitle(title string) string
}

// VectorIndex is the nearest-neighbor oracle behind retrieval.
type VectorIndex interface {
	Query(ctx context.Context, embedding []float32, k int) (vectorstore.QueryResult, error)
}
