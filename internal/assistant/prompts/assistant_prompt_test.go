package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfm-skills-assist/server/internal/assistant/model"
)

func TestRenderAssistantSystem(t *testing.T) {
	cfg := model.PromptConfig{BusinessName: "Wise", TeamName: "Workforce Management"}

	system, err := RenderAssistantSystem(context.Background(), cfg, "")

	require.NoError(t, err)
	assert.Contains(t, system, "Wise")
	assert.Contains(t, system, "Workforce Management")
	assert.Contains(t, system, DirectiveSearchSkills)
	assert.NotContains(t, system, "Lookup Data:")
}

func TestRenderAssistantSystem_WithContextData(t *testing.T) {
	cfg := model.PromptConfig{BusinessName: "Wise", TeamName: "Workforce Management"}

	system, err := RenderAssistantSystem(context.Background(), cfg, "The agent a@b.com has the following skills: None")

	require.NoError(t, err)
	assert.Contains(t, system, "Lookup Data: The agent a@b.com has the following skills: None")
}
