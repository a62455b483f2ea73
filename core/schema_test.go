package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/attiklabs/recall/core"
)

func TestObjectSchema(t *testing.T) {
	schema := core.ObjectSchema(map[string]any{
		"new_information": core.StringProperty("the fact to record"),
	}, "new_information")

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"new_information"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "new_information")
}

func TestToolDefinitionSchema(t *testing.T) {
	def := core.ToolDefinition{
		Name:        "update_memory",
		Description: "record a fact",
		Properties: map[string]any{
			"new_information": core.StringProperty("the fact"),
		},
		Required: []string{"new_information"},
	}

	schema := def.Schema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"new_information"}, schema["required"])
}

func TestTokenUsageAdd(t *testing.T) {
	u := core.TokenUsage{InputTokens: 10, OutputTokens: 5}
	u.Add(core.TokenUsage{InputTokens: 3, OutputTokens: 2})
	assert.Equal(t, 13, u.InputTokens)
	assert.Equal(t, 7, u.OutputTokens)
}
