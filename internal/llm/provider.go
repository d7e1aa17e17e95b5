// Package llm talks to hosted language models for answer coaching. Every
// call asks for a JSON object matching a Schema and gets it back validated.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider generates one structured reply.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Purposes label calls in the event log and select request defaults.
const (
	PurposeFeedback = "sparring-feedback"
	PurposeUnknown  = "unknown"
)

// Request is a single-turn prompt.
type Request struct {
	// Purpose tags the call, e.g. PurposeFeedback. Empty is logged as
	// PurposeUnknown.
	Purpose string

	System   string
	Messages []Message

	// Schema, when set, is passed to the provider's structured output mode
	// and the reply is validated against it.
	Schema *Schema

	// Zero MaxTokens or Temperature take the purpose's defaults.
	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the OpenAI schema name
// and the compile cache key, so it must be unique per Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type requestDefaults struct {
	maxTokens   int
	temperature float64
}

// Unlisted purposes get fallbackMaxTokens at temperature 0.
var purposeDefaults = map[string]requestDefaults{
	PurposeFeedback: {maxTokens: 600, temperature: 0.3},
}

const fallbackMaxTokens = 1024

// withDefaults fills unset fields from the purpose table and clamps
// Temperature to 0..1.
func (r Request) withDefaults() Request {
	if r.Purpose == "" {
		r.Purpose = PurposeUnknown
	}
	d, ok := purposeDefaults[r.Purpose]
	if !ok {
		d.maxTokens = fallbackMaxTokens
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = d.maxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = d.temperature
	}
	r.Temperature = min(max(r.Temperature, 0), 1)
	return r
}

// finish turns a provider's raw output into a Response, rejecting
// truncated or schema-violating content.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if err := Validate(req.Schema, content); err != nil {
		if stop == "max_tokens" {
			return nil, &Error{Kind: KindTruncated, Content: content, Err: errors.Unwrap(err)}
		}
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
