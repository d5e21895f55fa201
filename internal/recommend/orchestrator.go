// Package recommend implements the book-recommendation decision pipeline:
// topic gating, tool dispatch against the vector index and the summary
// corpus, and the two-call grounding flow that produces the final answer.
package recommend

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"book-recommender/backend/internal/config"
	"book-recommender/backend/internal/model"
	"book-recommender/backend/internal/recommend/deps"
	"book-recommender/backend/internal/recommend/prompt"
)

// Fixed user-facing texts for the designed terminal branches.
const (
	Refusal        = "I can only help with book recommendations."
	NoSuitableBook = "No suitable book found."
)

// Recommender drives one chat turn: gate, first model call with tool
// declarations, at most one tool dispatch, and an optional second model call
// that grounds the final answer in retrieved content. It holds no per-request
// state, so one instance serves concurrent turns.
type Recommender struct {
	chat       deps.ChatCompleter
	gate       deps.TopicGate
	dispatcher *toolDispatcher
	prompts    *prompt.Builder
	ai         config.AI
}

// NewRecommender wires the orchestrator with its collaborators.
func NewRecommender(chat deps.ChatCompleter, gate deps.TopicGate, searcher deps.BookSearcher, summaries deps.SummaryStore, ai config.AI) *Recommender {
	return &Recommender{
		chat:       chat,
		gate:       gate,
		dispatcher: &toolDispatcher{searcher: searcher, summaries: summaries},
		prompts:    prompt.NewBuilder(),
		ai:         ai,
	}
}

// Chat handles one user turn and returns the final answer text.
// The supplied history is read-only; persistence is the caller's concern.
func (r *Recommender) Chat(ctx context.Context, query string, history []model.Message) (string, error) {
	related, err := r.gate.IsBookRelated(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to classify message: %w", err)
	}
	if !related {
		log.Printf("[GATE] message rejected as off-topic")
		return Refusal, nil
	}

	messages := toOpenAIMessages(r.prompts.Conversation(query, history))

	resp, err := r.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               r.ai.Model,
		Messages:            messages,
		Tools:               toolDeclarations,
		Temperature:         r.ai.Temperature,
		MaxCompletionTokens: r.ai.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("first model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("first model call returned no choices")
	}

	reply := resp.Choices[0].Message
	if len(reply.ToolCalls) == 0 {
		// Direct answer, no grounding needed.
		if reply.Content == "" {
			return "", fmt.Errorf("first model call returned no text content")
		}
		return reply.Content, nil
	}

	// First tool call wins; any extra simultaneous calls are ignored.
	inv, err := parseToolCall(reply.ToolCalls[0])
	if err != nil {
		return "", err
	}

	outcome, err := r.dispatcher.dispatch(ctx, inv)
	if err != nil {
		return "", err
	}
	if outcome.done {
		return outcome.final, nil
	}

	return r.synthesize(ctx, messages, inv.id, outcome.toolResult)
}

// synthesize issues the second model call: the original sequence plus a
// tool-role result message, with no tools attached so the model must answer
// in plain text grounded in the retrieved candidates.
func (r *Recommender) synthesize(ctx context.Context, messages []openai.ChatCompletionMessage, toolCallID, toolResult string) (string, error) {
	withResult := append(append([]openai.ChatCompletionMessage{}, messages...), openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    toolResult,
		ToolCallID: toolCallID,
	})

	resp, err := r.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               r.ai.Model,
		Messages:            withResult,
		Temperature:         r.ai.Temperature,
		MaxCompletionTokens: r.ai.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis call failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("synthesis call returned no text content")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
	}
	return out
}
