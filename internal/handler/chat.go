package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/unicode/norm"

	"book-recommender/backend/internal/model"
)

const (
	// ChatTimeout bounds one whole chat turn, covering every outbound call.
	ChatTimeout = 60 * time.Second
	// MaxRetries is the number of from-scratch retries for a failed turn.
	// Both tools are read-only, so re-running a turn has no side effects.
	MaxRetries = 1
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 1000
)

// invalidBodyMessage is the fixed validation-failure text.
const invalidBodyMessage = "Request body does not match the expected format."

// Recommender is the orchestration engine behind /chat.
type Recommender interface {
	Chat(ctx context.Context, query string, history []model.Message) (string, error)
}

// ChatRequest is the /chat body. Pointers distinguish absent fields from
// zero values; history must be present but may be empty.
type ChatRequest struct {
	Query   *string          `json:"query"`
	History *[]model.Message `json:"history"`
}

// ChatResponse is the uniform envelope: exactly one of Payload and Error is set.
type ChatResponse struct {
	Payload *string `json:"payload"`
	Error   *string `json:"error"`
}

func payloadResponse(text string) ChatResponse {
	return ChatResponse{Payload: &text}
}

func errorResponse(message string) ChatResponse {
	return ChatResponse{Error: &message}
}

// ChatHandler serves the chat endpoints. A nil recommender means the engine
// failed to initialize; requests then get 503 instead of a crash.
type ChatHandler struct {
	recommender Recommender
}

// NewChatHandler creates a handler around the recommendation engine.
func NewChatHandler(recommender Recommender) *ChatHandler {
	return &ChatHandler{recommender: recommender}
}

// HandleChat validates the request shape, then runs one recommendation turn.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	startTime := time.Now()
	requestID := uuid.New().String()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(invalidBodyMessage))
		return
	}
	if req.Query == nil || *req.Query == "" || len(*req.Query) > MaxQueryLength || req.History == nil {
		c.JSON(http.StatusBadRequest, errorResponse(invalidBodyMessage))
		return
	}

	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Recommendation service is not available."))
		return
	}

	// Normalize to NFC before classification so lookalike codepoints do not
	// change what the gate sees.
	query := norm.NFC.String(*req.Query)

	answer, err := h.chatWithRetry(c.Request.Context(), query, *req.History, requestID)
	if err != nil {
		log.Printf("[CHAT] request=%s failed after %v: %v", requestID, time.Since(startTime), err)

		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, errorResponse("Request timed out. Please try again."))
			return
		}
		if isRateLimitError(err) {
			log.Printf("[QUOTA] AI backend rate limit exceeded")
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, errorResponse("The AI backend is rate limited. Please try again shortly."))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse("Failed to generate a recommendation."))
		return
	}

	log.Printf("[PERF] request=%s completed in %v", requestID, time.Since(startTime))
	c.JSON(http.StatusOK, payloadResponse(answer))
}

// chatWithRetry runs a turn under ChatTimeout, retrying a failed turn from
// scratch at most MaxRetries times with a short delay.
func (h *ChatHandler) chatWithRetry(ctx context.Context, query string, history []model.Message, requestID string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[RETRY] request=%s attempt %d/%d", requestID, attempt+1, MaxRetries+1)
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, ChatTimeout)
		answer, err := h.recommender.Chat(timeoutCtx, query, history)
		cancel()

		if err == nil {
			return answer, nil
		}

		lastErr = err
		log.Printf("[RETRY] request=%s attempt %d failed: %v", requestID, attempt+1, err)

		// The caller went away; nothing left to answer.
		if errors.Is(err, context.Canceled) {
			return "", err
		}
	}

	return "", lastErr
}

// isRateLimitError reports whether the AI backend returned HTTP 429.
func isRateLimitError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
