package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/wfm-skills-assist/server/internal/assistant/model"
)

// DirectiveSearchSkills is the fixed-format token the generator may emit
// instead of a user-facing reply, instructing the controller to run a
// skill lookup for the trailing text and call the generator again.
const DirectiveSearchSkills = "ACTION_SEARCH_SKILLS:"

//go:embed template/assistant_prompt.txt
var assistantSystemPrompt string

// RenderAssistantSystem renders the assistant system prompt via the Eino
// prompt component. contextData is the optional lookup result injected
// verbatim into the prompt; empty means no lookup ran this turn.
func RenderAssistantSystem(ctx context.Context, config model.PromptConfig, contextData string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(assistantSystemPrompt),
	)
	vars := map[string]any{
		"BusinessName": config.BusinessName,
		"TeamName":     config.TeamName,
		"Directive":    DirectiveSearchSkills,
		"ContextData":  contextData,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("assistant prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("assistant prompt render: empty result")
	}
	return msgs[0].Content, nil
}
