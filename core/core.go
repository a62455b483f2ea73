// Package core defines the shared types exchanged between the memory agent,
// the model providers and the front ends: conversation messages, tool
// declarations and tool invocations.
package core

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries a tool result back to the model after an invocation.
	RoleTool Role = "tool"
)

// Message is one entry in the per-turn conversation handed to a provider.
// Exactly one of Text, ToolCalls or ToolResult is expected to be meaningful
// for a given role, but assistant messages may combine text with tool calls.
type Message struct {
	Role Role

	// Text is the plain content of the message.
	Text string

	// ToolCalls holds the invocations an assistant message requested.
	ToolCalls []ToolCall

	// ToolResult is set on RoleTool messages.
	ToolResult *ToolResult
}

// ToolCall is the model's signal that it wants to invoke a declared
// capability. Arguments is the raw JSON payload supplied by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult is the outcome of executing a tool call, fed back to the model
// so it can produce its final conversational reply.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// ToolDefinition declares a capability the model may choose to invoke.
// Properties and Required together describe the JSON-schema object the model
// must supply as arguments.
type ToolDefinition struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Schema assembles the full JSON-schema object for this definition, in the
// shape providers that take a single schema value expect.
func (d ToolDefinition) Schema() map[string]any {
	return ObjectSchema(d.Properties, d.Required...)
}

// TokenUsage tracks model token consumption across the calls of one turn.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// NewUserMessage builds a plain user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewAssistantMessage builds an assistant message, optionally carrying the
// tool calls the model requested alongside its text.
func NewAssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Text: text, ToolCalls: calls}
}

// NewToolResultMessage builds the message returning a tool result to the model.
func NewToolResultMessage(callID, content string, isError bool) Message {
	return Message{Role: RoleTool, ToolResult: &ToolResult{
		CallID:  callID,
		Content: content,
		IsError: isError,
	}}
}
