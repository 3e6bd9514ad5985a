package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiRunner drives the GenerateContent function-calling loop.
type GeminiRunner struct {
	client   *genai.Client
	model    string
	maxTurns int
}

// NewGemini returns a Runner backed by the Gemini API. An empty baseURL
// uses the public endpoint.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, maxTurns int) (*GeminiRunner, error) {
	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(baseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(baseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "agent: create gemini client")
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &GeminiRunner{client: client, model: model, maxTurns: maxTurns}, nil
}

// Run implements Runner.
func (r *GeminiRunner) Run(ctx context.Context, task Task) (*Answer, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(task.Tools))
	for _, t := range task.Tools {
		params, err := schemaMap(t.Parameters)
		if err != nil {
			return nil, err
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGenaiSchema(params),
		})
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(task.System, genai.RoleUser),
		CandidateCount:    1,
	}
	if len(decls) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	contents := []*genai.Content{genai.NewContentFromText(task.Prompt, genai.RoleUser)}

	ans := &Answer{}
	var promptTokens, outputTokens int32
	defer func() {
		zap.L().Debug("cost attribution",
			zap.String("model", r.model),
			zap.String("company", task.Label),
			zap.Int32("input_tokens", promptTokens),
			zap.Int32("output_tokens", outputTokens),
		)
	}()

	for ans.Turns < r.maxTurns {
		resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, cfg)
		if err != nil {
			return nil, eris.Wrap(err, "agent: gemini generate content")
		}
		ans.Turns++
		if resp.UsageMetadata != nil {
			promptTokens += resp.UsageMetadata.PromptTokenCount
			outputTokens += resp.UsageMetadata.CandidatesTokenCount
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, eris.New("agent: gemini returned no candidates")
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			ans.Text = resp.Text()
			logFinish("gemini", task, ans)
			return ans, nil
		}

		contents = append(contents, resp.Candidates[0].Content)

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			ans.ToolCalls++
			args, err := json.Marshal(call.Args)
			if err != nil {
				return nil, eris.Wrap(err, "agent: marshal gemini args")
			}

			content, isErr := invokeTool(ctx, task.Tools, task.Label, call.Name, args)
			key := "output"
			if isErr {
				key = "error"
			}
			part := genai.NewPartFromFunctionResponse(call.Name, map[string]any{key: content})
			part.FunctionResponse.ID = call.ID
			parts = append(parts, part)
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return nil, eris.Wrapf(ErrMaxTurns, "agent: gemini after %d turns", ans.Turns)
}

// toGenaiSchema converts a generic JSON schema object to the genai subset.
func toGenaiSchema(m map[string]any) *genai.Schema {
	s := &genai.Schema{}
	switch m["type"] {
	case "object":
		s.Type = genai.TypeObject
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(pm)
			}
		}
	}
	if req, ok := m["required"].([]any); ok {
		for _, v := range req {
			if name, ok := v.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	if enum, ok := m["enum"].([]any); ok {
		for _, v := range enum {
			if e, ok := v.(string); ok {
				s.Enum = append(s.Enum, e)
			}
		}
	}
	return s
}
