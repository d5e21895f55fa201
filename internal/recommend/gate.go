package recommend

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"book-recommender/backend/internal/config"
	"book-recommender/backend/internal/recommend/deps"
	"book-recommender/backend/internal/recommend/prompt"
	"book-recommender/backend/internal/recommend/response"
)

// ClassifierGate decides topic relevance with a constrained-output model call.
// The call is stateless: history is never included, and no tools are attached.
type ClassifierGate struct {
	chat    deps.ChatCompleter
	prompts *prompt.Builder
	ai      config.AI
}

// NewClassifierGate creates a gate backed by the chat-completion client.
func NewClassifierGate(chat deps.ChatCompleter, ai config.AI) *ClassifierGate {
	return &ClassifierGate{chat: chat, prompts: prompt.NewBuilder(), ai: ai}
}

// IsBookRelated classifies the current message only. An unparseable reply
// fails closed to "not book-related"; only transport failures propagate.
func (g *ClassifierGate) IsBookRelated(ctx context.Context, message string) (bool, error) {
	req := openai.ChatCompletionRequest{
		Model:               g.ai.Model,
		Messages:            toOpenAIMessages(g.prompts.GateConversation(message)),
		Temperature:         g.ai.Temperature,
		MaxCompletionTokens: g.ai.MaxOutputTokens,
	}

	resp, err := g.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return false, err
	}

	if len(resp.Choices) == 0 {
		log.Printf("[GATE] classifier returned no choices; rejecting")
		return false, nil
	}

	related, ok := response.ParseGateVerdict(resp.Choices[0].Message.Content)
	if !ok {
		log.Printf("[GATE] unparseable classifier reply; rejecting")
		return false, nil
	}
	return related, nil
}
