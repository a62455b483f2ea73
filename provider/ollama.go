package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/attiklabs/recall/core"
)

// Ollama runs plain completions against a local Ollama server. It does not
// declare tool support, which makes it suitable as a dedicated merge-step
// model while a tool-capable provider drives the conversation.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates an Ollama provider. The server address is read from
// OLLAMA_HOST, defaulting to http://localhost:11434.
func NewOllama(model string) (*Ollama, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}
	httpClient := &http.Client{Timeout: 120 * time.Second}
	return &Ollama{client: ollama.NewClient(u, httpClient), model: model}, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Generate flattens the system prompt and history into a single prompt and
// accumulates the streamed response. Requests declaring tools are rejected
// with ErrToolsUnsupported.
func (o *Ollama) Generate(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Tools) > 0 {
		return nil, ErrToolsUnsupported
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	var prompt strings.Builder
	if req.System != "" {
		prompt.WriteString(req.System)
		prompt.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		if m.Text == "" {
			continue
		}
		prompt.WriteString(m.Text)
		prompt.WriteString("\n")
	}

	var (
		text strings.Builder
		last ollama.GenerateResponse
	)
	err := o.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  model,
		Prompt: prompt.String(),
	}, func(gr ollama.GenerateResponse) error {
		if gr.Response != "" {
			text.WriteString(gr.Response)
		}
		last = gr
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	return &Response{
		Text: text.String(),
		Usage: core.TokenUsage{
			InputTokens:  last.PromptEvalCount,
			OutputTokens: last.EvalCount,
		},
	}, nil
}
