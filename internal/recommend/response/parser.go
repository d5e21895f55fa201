// Package response post-processes raw model output.
package response

import (
	"encoding/json"
	"regexp"
	"strings"
)

// reasoningRegex matches a delimited reasoning span some backends prepend to
// their reply. Stripping it is a compatibility shim, not a parsing requirement.
var reasoningRegex = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes reasoning spans and surrounding whitespace.
func StripReasoning(text string) string {
	return strings.TrimSpace(reasoningRegex.ReplaceAllString(text, ""))
}

type gateVerdict struct {
	IsBookRelated *bool `json:"is_book_related"`
}

// ParseGateVerdict parses a {"is_book_related": boolean} reply.
// ok is false when the text is not valid JSON or the key is absent.
func ParseGateVerdict(text string) (related bool, ok bool) {
	var verdict gateVerdict
	if err := json.Unmarshal([]byte(StripReasoning(text)), &verdict); err != nil {
		return false, false
	}
	if verdict.IsBookRelated == nil {
		return false, false
	}
	return *verdict.IsBookRelated, true
}
