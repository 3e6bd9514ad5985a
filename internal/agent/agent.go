// Package agent runs a tool-using chat loop against an LLM provider until the
// model produces a final text answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultMaxTurns bounds the number of model calls per task.
const DefaultMaxTurns = 15

// ErrMaxTurns is returned when the model is still calling tools after the turn limit.
var ErrMaxTurns = eris.New("agent: max turns exceeded")

// Tool is a function the model may call. Invoke receives the raw JSON
// arguments the model produced.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Invoke      func(ctx context.Context, args json.RawMessage) (string, error)
}

// Task is one conversation: a fixed system instruction, a user request and
// the tools granted for it.
type Task struct {
	System string
	Prompt string
	Tools  []Tool
	// Label identifies the task in logs.
	Label string
}

// Answer is the model's final text and loop statistics.
type Answer struct {
	Text      string
	Turns     int
	ToolCalls int
}

// Runner executes a Task to completion.
type Runner interface {
	Run(ctx context.Context, task Task) (*Answer, error)
}

// ReflectSchema builds a flat JSON schema for the tool argument type T.
func ReflectSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// schemaMap converts a schema to a generic JSON object with only the keys
// function-calling APIs accept.
func schemaMap(s *jsonschema.Schema) (map[string]any, error) {
	if s == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "agent: marshal schema")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, eris.Wrap(err, "agent: unmarshal schema")
	}
	delete(m, "$schema")
	delete(m, "$id")
	if _, ok := m["properties"]; !ok {
		m["properties"] = map[string]any{}
	}
	return m, nil
}

// invokeTool runs the named tool. Failures are reported back to the model as
// text with isError set, never returned as a Go error.
func invokeTool(ctx context.Context, tools []Tool, label, name string, args json.RawMessage) (content string, isError bool) {
	var tool *Tool
	for i := range tools {
		if tools[i].Name == name {
			tool = &tools[i]
			break
		}
	}
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", name), true
	}

	start := time.Now()
	out, err := tool.Invoke(ctx, args)
	log := zap.L().With(
		zap.String("company", label),
		zap.String("tool", name),
		zap.ByteString("args", args),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		log.Debug("agent: tool error", zap.Error(err))
		return "Error: " + err.Error(), true
	}
	log.Debug("agent: tool call")
	return out, false
}

func logFinish(provider string, task Task, ans *Answer) {
	zap.L().Debug("agent: finished",
		zap.String("provider", provider),
		zap.String("company", task.Label),
		zap.Int("turns", ans.Turns),
		zap.Int("tool_calls", ans.ToolCalls),
	)
}
