package agent

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenAIRunner drives the Chat Completions function-calling loop.
type OpenAIRunner struct {
	client   openai.Client
	model    string
	maxTurns int
}

// NewOpenAI returns a Runner backed by OpenAI Chat Completions. An empty
// baseURL uses the public API. SDK retries are disabled.
func NewOpenAI(apiKey, model, baseURL string, maxTurns int) *OpenAIRunner {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &OpenAIRunner{
		client:   openai.NewClient(opts...),
		model:    model,
		maxTurns: maxTurns,
	}
}

// Run implements Runner.
func (r *OpenAIRunner) Run(ctx context.Context, task Task) (*Answer, error) {
	tools := make([]openai.ChatCompletionToolParam, 0, len(task.Tools))
	for _, t := range task.Tools {
		params, err := schemaMap(t.Parameters)
		if err != nil {
			return nil, err
		}
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(params),
			},
		})
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(task.System),
			openai.UserMessage(task.Prompt),
		},
		Tools: tools,
	}

	ans := &Answer{}
	var promptTokens, completionTokens int64
	defer func() {
		zap.L().Debug("cost attribution",
			zap.String("model", r.model),
			zap.String("company", task.Label),
			zap.Int64("input_tokens", promptTokens),
			zap.Int64("output_tokens", completionTokens),
		)
	}()

	for ans.Turns < r.maxTurns {
		completion, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, eris.Wrap(err, "agent: openai chat completion")
		}
		ans.Turns++
		promptTokens += completion.Usage.PromptTokens
		completionTokens += completion.Usage.CompletionTokens

		if len(completion.Choices) == 0 {
			return nil, eris.New("agent: openai returned no choices")
		}
		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			ans.Text = msg.Content
			logFinish("openai", task, ans)
			return ans, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			ans.ToolCalls++
			content, _ := invokeTool(ctx, task.Tools, task.Label, call.Function.Name, json.RawMessage(call.Function.Arguments))
			params.Messages = append(params.Messages, openai.ToolMessage(content, call.ID))
		}
	}

	return nil, eris.Wrapf(ErrMaxTurns, "agent: openai after %d turns", ans.Turns)
}
