package recommend

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestParseToolCallSearchBooks(t *testing.T) {
	inv, err := parseToolCall(openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "search_books",
			Arguments: `{"description": "a thrilling mystery"}`,
		},
	})
	if err != nil {
		t.Fatalf("parseToolCall returned error: %v", err)
	}
	if inv.kind != toolSearchBooks {
		t.Errorf("kind = %d, want search", inv.kind)
	}
	if inv.id != "call-1" {
		t.Errorf("id = %q", inv.id)
	}
	if inv.description != "a thrilling mystery" {
		t.Errorf("description = %q", inv.description)
	}
}

func TestParseToolCallStripsAuthorSuffix(t *testing.T) {
	cases := []struct {
		arg  string
		want string
	}{
		{`{"title": "Dune by Frank Herbert"}`, "Dune"},
		{`{"title": "Dune BY Frank Herbert"}`, "Dune"},
		{`{"title": "Dune"}`, "Dune"},
		{`{"title": "Standing by the Wall"}`, "Standing"},
	}

	for _, tc := range cases {
		inv, err := parseToolCall(openai.ToolCall{
			ID:       "call-2",
			Function: openai.FunctionCall{Name: "get_summary_by_title", Arguments: tc.arg},
		})
		if err != nil {
			t.Fatalf("parseToolCall(%s) returned error: %v", tc.arg, err)
		}
		if inv.kind != toolGetSummaryByTitle {
			t.Errorf("kind = %d, want summary", inv.kind)
		}
		if inv.title != tc.want {
			t.Errorf("title for %s = %q, want %q", tc.arg, inv.title, tc.want)
		}
	}
}

func TestParseToolCallUnknownName(t *testing.T) {
	_, err := parseToolCall(openai.ToolCall{
		Function: openai.FunctionCall{Name: "order_pizza", Arguments: `{}`},
	})

	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownToolError, got %v", err)
	}
	if unknown.Name != "order_pizza" {
		t.Errorf("unknown tool name = %q", unknown.Name)
	}
}

func TestParseToolCallMalformedArguments(t *testing.T) {
	if _, err := parseToolCall(openai.ToolCall{
		Function: openai.FunctionCall{Name: "search_books", Arguments: `{not json`},
	}); err == nil {
		t.Error("expected error for malformed arguments")
	}
}

func TestToolDeclarationsAreStable(t *testing.T) {
	if len(toolDeclarations) != 2 {
		t.Fatalf("expected exactly 2 tool declarations, got %d", len(toolDeclarations))
	}
	if toolDeclarations[0].Function.Name != "search_books" {
		t.Errorf("first declaration = %q", toolDeclarations[0].Function.Name)
	}
	if toolDeclarations[1].Function.Name != "get_summary_by_title" {
		t.Errorf("second declaration = %q", toolDeclarations[1].Function.Name)
	}
}
