package agent

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/pkg/anthropic"
)

// AnthropicRunner drives the Messages API tool-use loop.
type AnthropicRunner struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	maxTurns  int

	// CacheTTL sets the system prompt cache lifetime. Empty uses the API default.
	CacheTTL string
}

// NewAnthropic returns a Runner backed by an anthropic.Client.
func NewAnthropic(client anthropic.Client, model string, maxTokens int64, maxTurns int) *AnthropicRunner {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &AnthropicRunner{client: client, model: model, maxTokens: maxTokens, maxTurns: maxTurns}
}

// Run implements Runner.
func (r *AnthropicRunner) Run(ctx context.Context, task Task) (*Answer, error) {
	tools := make([]anthropic.Tool, 0, len(task.Tools))
	for _, t := range task.Tools {
		params, err := schemaMap(t.Parameters)
		if err != nil {
			return nil, err
		}
		tools = append(tools, anthropic.Tool{
			Name:        t.Name,
			Description: t.Description,
			Properties:  params["properties"],
			Required:    requiredFields(params["required"]),
		})
	}

	req := anthropic.MessageRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(task.System, r.CacheTTL),
		Messages:  []anthropic.Message{anthropic.TextMessage("user", task.Prompt)},
		Tools:     tools,
	}

	ans := &Answer{}
	var usage anthropic.TokenUsage
	defer func() { usage.LogCost(r.model, task.Label) }()

	for ans.Turns < r.maxTurns {
		resp, err := r.client.CreateMessage(ctx, req)
		if err != nil {
			return nil, err
		}
		ans.Turns++
		usage = usage.Add(resp.Usage)

		uses := resp.ToolUses()
		if len(uses) == 0 || resp.StopReason != anthropic.StopToolUse {
			ans.Text = resp.Text()
			logFinish("anthropic", task, ans)
			return ans, nil
		}

		req.Messages = append(req.Messages, anthropic.Message{Role: "assistant", Content: resp.Content})

		results := make([]anthropic.ContentBlock, 0, len(uses))
		for _, use := range uses {
			ans.ToolCalls++
			content, isErr := invokeTool(ctx, task.Tools, task.Label, use.Name, use.Input)
			results = append(results, anthropic.ContentBlock{
				Type:      anthropic.BlockToolResult,
				ToolUseID: use.ID,
				Text:      content,
				IsError:   isErr,
			})
		}
		req.Messages = append(req.Messages, anthropic.Message{Role: "user", Content: results})
	}

	return nil, eris.Wrapf(ErrMaxTurns, "agent: anthropic after %d turns", ans.Turns)
}

func requiredFields(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, f := range list {
		if name, ok := f.(string); ok {
			out = append(out, name)
		}
	}
	return out
}
