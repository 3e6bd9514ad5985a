package pipeline

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sells-group/linkedin-finder/internal/agent"
	"github.com/sells-group/linkedin-finder/internal/resolver"
	"github.com/sells-group/linkedin-finder/internal/search"
	"github.com/sells-group/linkedin-finder/pkg/anthropic"
)

// Compile-time interface checks.
var (
	_ anthropic.Client = (*StubAnthropicClient)(nil)
	_ Resolver         = (*resolver.Resolver)(nil)
)

// StubModel is the model name reported by offline runs.
const StubModel = "stub"

var stubLinkRe = regexp.MustCompile(`https://www\.linkedin\.com/company/[^/\s"]+/`)

// --- Anthropic Stub ---

// StubAnthropicClient implements anthropic.Client with a scripted two-turn
// conversation: first it calls the granted tool with the company name, then
// it answers with the first company link found in the tool result.
type StubAnthropicClient struct{}

// CreateMessage implements anthropic.Client.
func (s *StubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	usage := anthropic.TokenUsage{InputTokens: 150, OutputTokens: 50}

	if results, ok := lastToolResult(req.Messages); ok {
		answer := "Not found"
		if link := stubLinkRe.FindString(results); link != "" {
			answer = link + "people/"
		}
		return &anthropic.MessageResponse{
			ID:         "stub-msg-002",
			Model:      req.Model,
			Content:    []anthropic.ContentBlock{{Type: anthropic.BlockText, Text: answer}},
			StopReason: "end_turn",
			Usage:      usage,
		}, nil
	}

	if len(req.Tools) == 0 {
		return &anthropic.MessageResponse{
			ID:         "stub-msg-001",
			Model:      req.Model,
			Content:    []anthropic.ContentBlock{{Type: anthropic.BlockText, Text: "Not found"}},
			StopReason: "end_turn",
			Usage:      usage,
		}, nil
	}

	input, _ := json.Marshal(map[string]string{"query": stubCompanyName(req.Messages)})
	return &anthropic.MessageResponse{
		ID:    "stub-msg-001",
		Model: req.Model,
		Content: []anthropic.ContentBlock{{
			Type:  anthropic.BlockToolUse,
			ID:    "stub-tool-001",
			Name:  req.Tools[0].Name,
			Input: input,
		}},
		StopReason: anthropic.StopToolUse,
		Usage:      usage,
	}, nil
}

func lastToolResult(msgs []anthropic.Message) (string, bool) {
	if len(msgs) == 0 {
		return "", false
	}
	var b strings.Builder
	found := false
	for _, block := range msgs[len(msgs)-1].Content {
		if block.Type == anthropic.BlockToolResult {
			found = true
			b.WriteString(block.Text)
		}
	}
	return b.String(), found
}

// stubCompanyName pulls the company name out of the user request.
func stubCompanyName(msgs []anthropic.Message) string {
	if len(msgs) == 0 || len(msgs[0].Content) == 0 {
		return ""
	}
	text := msgs[0].Content[0].Text
	_, rest, ok := strings.Cut(text, "profile for ")
	if !ok {
		return text
	}
	name, _, _ := strings.Cut(rest, ". Return")
	return strings.TrimSpace(name)
}

// NewOfflineResolver returns a Resolver that drives the real agent loop
// against StubAnthropicClient and search.Stub. It makes no network calls.
func NewOfflineResolver(maxTurns int) *resolver.Resolver {
	runner := agent.NewAnthropic(&StubAnthropicClient{}, StubModel, 0, maxTurns)
	return resolver.New(runner, search.Stub{})
}
