// Package agent orchestrates a conversation turn: it loads the user's memory,
// asks the model for a reply with the update_memory capability declared, and
// when the model invokes it, runs the merge step and persists the result.
//
// Whether anything is worth remembering is entirely the model's decision.
// There is no keyword filter, no heuristic gating and no confidence threshold;
// false positives and negatives are accepted as model behavior.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attiklabs/recall/core"
	"github.com/attiklabs/recall/memory"
	"github.com/attiklabs/recall/provider"
)

// ToolName is the capability the model invokes to record new information.
const ToolName = "update_memory"

// maxToolRounds caps the model-call loop within one turn. A well-behaved
// turn takes at most two calls (reply with tool use, then follow-up).
const maxToolRounds = 4

// Agent runs the per-turn loop for one store and one conversation provider.
// It is safe for concurrent use; turns for the same user are serialized.
type Agent struct {
	store     memory.Store
	provider  provider.Provider
	merger    *Merger
	model     string
	maxTokens int64
	now       func() time.Time
	locks     *userLocks
	logger    *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel overrides the provider's default conversation model.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTokens caps response sizes for conversation calls.
func WithMaxTokens(n int64) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// WithMerger sets the merge step. Without it, merges run on the agent's own
// provider. A separate merger lets a cheaper model handle merges.
func WithMerger(m *Merger) Option {
	return func(a *Agent) { a.merger = m }
}

// WithClock injects the clock used for recording markers.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// WithLogger sets the agent's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// New creates an Agent over the given store and provider.
func New(store memory.Store, p provider.Provider, opts ...Option) *Agent {
	a := &Agent{
		store:     store,
		provider:  p,
		maxTokens: 4096,
		now:       time.Now,
		locks:     newUserLocks(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.merger == nil {
		a.merger = NewMerger(p,
			WithMergeModel(a.model),
			WithMergeClock(a.now),
			WithMergeLogger(a.logger))
	}
	return a
}

// Turn is the outcome of one conversation turn.
type Turn struct {
	// ID identifies the turn for logging and correlation.
	ID string

	// Reply is the assistant's user-visible response.
	Reply string

	// MemoryUpdated reports whether the model invoked update_memory and the
	// merged result was persisted.
	MemoryUpdated bool

	// Memory is the user's memory string after the turn. Empty when the
	// user has none.
	Memory string

	// Usage accumulates token consumption across the turn's model calls.
	Usage core.TokenUsage
}

// toolDefinition declares the update_memory capability.
func toolDefinition() core.ToolDefinition {
	return core.ToolDefinition{
		Name:        ToolName,
		Description: toolDescription,
		Properties: map[string]any{
			"new_information": core.StringProperty(
				"Any information that should be added or updated in the user's memory."),
		},
		Required: []string{"new_information"},
	}
}

// toolInput is the argument payload of an update_memory invocation.
type toolInput struct {
	NewInformation string `json:"new_information"`
}

// HandleTurn processes one user message and returns the assistant's reply,
// possibly updating the user's memory along the way.
//
// The read-merge-write sequence holds a per-user lock, so concurrent turns
// for the same user cannot silently discard each other's writes. A provider
// or storage failure anywhere in the path fails the whole turn.
func (a *Agent) HandleTurn(ctx context.Context, userID, message string) (*Turn, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("message is required")
	}

	unlock := a.locks.lock(userID)
	defer unlock()

	current, err := a.store.Read(ctx, userID)
	if err != nil && !errors.Is(err, memory.ErrNotFound) {
		return nil, fmt.Errorf("read memory: %w", err)
	}

	turn := &Turn{
		ID:     uuid.New().String(),
		Memory: current,
	}
	logger := a.logger.With("turn_id", turn.ID, "user_id", userID)
	logger.Debug("turn started", "memory_len", len(current))

	messages := []core.Message{core.NewUserMessage(message)}
	tools := []core.ToolDefinition{toolDefinition()}

	for round := 0; ; round++ {
		if round >= maxToolRounds {
			return nil, fmt.Errorf("exceeded maximum tool rounds (%d)", maxToolRounds)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, err := a.provider.Generate(ctx, &provider.Request{
			Model:     a.model,
			System:    systemPrompt(current),
			Messages:  messages,
			Tools:     tools,
			MaxTokens: a.maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}
		turn.Usage.Add(resp.Usage)

		if len(resp.ToolCalls) == 0 {
			turn.Reply = resp.Text
			turn.Memory = current
			logger.Info("turn complete",
				"memory_updated", turn.MemoryUpdated,
				"input_tokens", turn.Usage.InputTokens,
				"output_tokens", turn.Usage.OutputTokens)
			return turn, nil
		}

		messages = append(messages, core.NewAssistantMessage(resp.Text, resp.ToolCalls...))

		for _, call := range resp.ToolCalls {
			result, updated, err := a.execToolCall(ctx, logger, userID, current, call)
			if err != nil {
				return nil, err
			}
			if updated != "" {
				current = updated
				turn.MemoryUpdated = true
				turn.Memory = updated
			}
			messages = append(messages, result)
		}
	}
}

// execToolCall runs one tool invocation and returns the tool-result message
// plus the new memory string when a merge was persisted.
func (a *Agent) execToolCall(ctx context.Context, logger *slog.Logger, userID, current string, call core.ToolCall) (core.Message, string, error) {
	if call.Name != ToolName {
		logger.Warn("unknown tool invoked", "tool", call.Name)
		return core.NewToolResultMessage(call.ID,
			fmt.Sprintf("unknown tool: %s", call.Name), true), "", nil
	}

	var input toolInput
	if err := json.Unmarshal(call.Arguments, &input); err != nil {
		return core.NewToolResultMessage(call.ID,
			fmt.Sprintf("invalid tool input JSON: %s", err), true), "", nil
	}

	// A missing or empty payload is treated permissively: no merge, turn
	// proceeds.
	newInfo := strings.TrimSpace(input.NewInformation)
	if newInfo == "" {
		logger.Debug("empty update_memory payload, skipping merge")
		return core.NewToolResultMessage(call.ID,
			"No new information provided; memory unchanged.", false), "", nil
	}

	merged, err := a.merger.Merge(ctx, current, newInfo)
	if err != nil {
		return core.Message{}, "", err
	}
	if err := a.store.Write(ctx, userID, merged); err != nil {
		return core.Message{}, "", fmt.Errorf("write memory: %w", err)
	}
	logger.Info("memory updated", "memory_len", len(merged))

	return core.NewToolResultMessage(call.ID,
		"Memory updated successfully. Current memory: "+preview(merged, 100), false), merged, nil
}

// Memory returns the user's current memory string, or "" when absent.
func (a *Agent) Memory(ctx context.Context, userID string) (string, error) {
	content, err := a.store.Read(ctx, userID)
	if errors.Is(err, memory.ErrNotFound) {
		return "", nil
	}
	return content, err
}

func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
