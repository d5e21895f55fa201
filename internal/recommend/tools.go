package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"book-recommender/backend/internal/recommend/deps"
	"book-recommender/backend/internal/recommend/prompt"
)

// Tool names as declared to the model.
const (
	toolNameSearchBooks       = "search_books"
	toolNameGetSummaryByTitle = "get_summary_by_title"
)

// toolKind is the closed set of declared tools.
type toolKind int

const (
	toolSearchBooks toolKind = iota
	toolGetSummaryByTitle
)

// UnknownToolError reports a tool name the model was never offered. It signals
// a declaration mismatch with the backend and must surface, not be swallowed.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("model requested unknown tool %q", e.Name)
}

type searchBooksArgs struct {
	Description string `json:"description"`
}

type summaryByTitleArgs struct {
	Title string `json:"title"`
}

// toolInvocation is a parsed tool call, typed per variant.
type toolInvocation struct {
	id          string
	kind        toolKind
	description string // toolSearchBooks
	title       string // toolGetSummaryByTitle
}

// toolDeclarations are constant for the process lifetime.
var toolDeclarations = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolNameSearchBooks,
			Description: "Finds the best matching books inside the vector index based on the user description for RAG",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"description": map[string]any{
						"type":        "string",
						"description": "A description of the book or topic the user is interested in.",
					},
				},
				"required": []string{"description"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        toolNameGetSummaryByTitle,
			Description: "Retrieves the summary for a given book title.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The title of the book.",
					},
				},
				"required": []string{"title"},
			},
		},
	},
}

// authorSuffixRegex matches a trailing " by <anything>". The model sometimes
// echoes the author back despite being asked for the title only.
var authorSuffixRegex = regexp.MustCompile(`(?i)\s+by\s+.*$`)

func stripAuthorSuffix(title string) string {
	return strings.TrimSpace(authorSuffixRegex.ReplaceAllString(title, ""))
}

// parseToolCall maps a model tool call onto the closed invocation set.
func parseToolCall(call openai.ToolCall) (toolInvocation, error) {
	switch call.Function.Name {
	case toolNameSearchBooks:
		var args searchBooksArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolInvocation{}, fmt.Errorf("failed to parse %s arguments: %w", toolNameSearchBooks, err)
		}
		return toolInvocation{id: call.ID, kind: toolSearchBooks, description: args.Description}, nil
	case toolNameGetSummaryByTitle:
		var args summaryByTitleArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolInvocation{}, fmt.Errorf("failed to parse %s arguments: %w", toolNameGetSummaryByTitle, err)
		}
		return toolInvocation{id: call.ID, kind: toolGetSummaryByTitle, title: stripAuthorSuffix(args.Title)}, nil
	default:
		return toolInvocation{}, &UnknownToolError{Name: call.Function.Name}
	}
}

// toolOutcome is what a dispatched tool produced. When done is true, final is
// the terminal user-facing text and no second model call happens. Otherwise
// toolResult is the content for the synthetic tool-role message.
type toolOutcome struct {
	done       bool
	final      string
	toolResult string
}

// toolDispatcher routes parsed invocations to their collaborators.
type toolDispatcher struct {
	searcher  deps.BookSearcher
	summaries deps.SummaryStore
}

func (d *toolDispatcher) dispatch(ctx context.Context, inv toolInvocation) (toolOutcome, error) {
	switch inv.kind {
	case toolSearchBooks:
		log.Printf("[TOOL] search_books called with description: %s", inv.description)
		candidates, err := d.searcher.SearchBooks(ctx, inv.description)
		if err != nil {
			return toolOutcome{}, err
		}
		if len(candidates) == 0 {
			return toolOutcome{done: true, final: NoSuitableBook}, nil
		}
		return toolOutcome{toolResult: prompt.FormatCandidates(candidates)}, nil
	case toolGetSummaryByTitle:
		log.Printf("[TOOL] get_summary_by_title called with title: %s", inv.title)
		return toolOutcome{done: true, final: d.summaries.SummaryByTitle(inv.title)}, nil
	default:
		// Unreachable for invocations produced by parseToolCall.
		return toolOutcome{}, fmt.Errorf("unhandled tool kind %d", inv.kind)
	}
}
