// Package prompt holds the fixed instruction text and builds message sequences.
package prompt

import (
	"fmt"
	"strings"

	"book-recommender/backend/internal/model"
)

// Builder constructs message sequences for the model calls.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Conversation builds [system, ...history, user]. The caller's history is
// copied, never mutated.
func (b *Builder) Conversation(query string, history []model.Message) []model.Message {
	messages := make([]model.Message, 0, len(history)+2)
	messages = append(messages, model.Message{Role: model.RoleSystem, Content: SystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, model.Message{Role: model.RoleUser, Content: query})
	return messages
}

// GateConversation builds the stateless two-message classification sequence.
// History is deliberately absent: the gate judges the current turn only.
func (b *Builder) GateConversation(query string) []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: GateSystemPrompt},
		{Role: model.RoleUser, Content: query},
	}
}

// FormatCandidates renders retrieval results for the synthetic tool-result
// message, preserving the index's nearest-first order.
func FormatCandidates(candidates []model.BookCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, fmt.Sprintf("%s by %s\nSummary: %s", c.Title, c.Author, c.Summary))
	}
	return CandidatesPreamble + "\n" + strings.Join(blocks, "\n\n")
}
