// Package provider abstracts the language-model boundary. The agent only
// depends on the Generate contract: a system prompt, a message history and a
// set of declared tools go in; text and zero or more tool invocations come
// out. Any model with tool-invocation semantics can sit behind it.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/attiklabs/recall/core"
)

// ErrToolsUnsupported is returned by providers that can only do plain text
// generation when the request declares tools.
var ErrToolsUnsupported = errors.New("provider does not support tool invocation")

// Request carries everything a provider needs for one model call.
type Request struct {
	// Model overrides the provider's configured default when non-empty.
	Model string

	// System is the system prompt.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []core.Message

	// Tools declares the capabilities the model may invoke. Empty means a
	// plain completion.
	Tools []core.ToolDefinition

	// MaxTokens caps the response size. Providers apply their own default
	// when zero.
	MaxTokens int64
}

// Response is the provider-neutral model output.
type Response struct {
	// Text is the concatenated text content of the response.
	Text string

	// ToolCalls holds the invocations the model requested, in order.
	ToolCalls []core.ToolCall

	// Usage reports token consumption for this call when the provider
	// exposes it.
	Usage core.TokenUsage
}

// Provider is an opaque generate(messages, tools) -> response boundary.
type Provider interface {
	// Name identifies the provider for logging.
	Name() string

	// Generate performs a single model call.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// New constructs a concrete provider by name.
func New(name, model string) (Provider, error) {
	switch name {
	case "anthropic", "claude":
		return NewAnthropic(model), nil
	case "openai":
		return NewOpenAI(model), nil
	case "ollama":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}
