package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/attiklabs/recall/core"
	"github.com/attiklabs/recall/provider"
)

// recordedMarker matches the [recorded:<date>] annotation the merge step
// appends to every memory string.
var recordedMarker = regexp.MustCompile(`\[recorded:[^\]]+\]`)

// Merger combines an existing memory string with new information via a single
// model call. Conflict resolution is entirely the model's judgment; the only
// code-enforced invariant is the presence of a recording marker on the result.
type Merger struct {
	provider  provider.Provider
	model     string
	maxTokens int64
	now       func() time.Time
	logger    *slog.Logger
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithMergeModel overrides the provider's default model for merge calls.
func WithMergeModel(model string) MergerOption {
	return func(m *Merger) { m.model = model }
}

// WithMergeClock injects the clock used for recording markers.
func WithMergeClock(now func() time.Time) MergerOption {
	return func(m *Merger) { m.now = now }
}

// WithMergeLogger sets the merger's logger.
func WithMergeLogger(logger *slog.Logger) MergerOption {
	return func(m *Merger) { m.logger = logger }
}

// NewMerger creates a Merger backed by the given provider.
func NewMerger(p provider.Provider, opts ...MergerOption) *Merger {
	m := &Merger{
		provider:  p,
		maxTokens: 2048,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge produces the replacement memory string for (existing, newInfo).
// The result always carries a [recorded:<date>] marker: if the model omitted
// one, the current date is appended.
func (m *Merger) Merge(ctx context.Context, existing, newInfo string) (string, error) {
	date := m.now().UTC().Format("2006-01-02")
	prompt := mergePrompt(existing, newInfo, date)

	resp, err := m.provider.Generate(ctx, &provider.Request{
		Model:     m.model,
		Messages:  []core.Message{core.NewUserMessage(prompt)},
		MaxTokens: m.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("merge memory: %w", err)
	}

	merged := strings.TrimSpace(resp.Text)
	if merged == "" {
		return "", errors.New("merge memory: model returned empty result")
	}
	if !recordedMarker.MatchString(merged) {
		merged = merged + " [recorded:" + date + "]"
	}

	m.logger.Debug("memory merged",
		"provider", m.provider.Name(),
		"existing_len", len(existing),
		"merged_len", len(merged))
	return merged, nil
}
