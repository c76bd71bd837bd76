package assistant

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/wfm-skills-assist/server/internal/assistant/model"
	"github.com/wfm-skills-assist/server/internal/assistant/prompts"
	logx "github.com/wfm-skills-assist/server/pkg/logger"
)

// UnavailableMessage is returned by every Reply call when the chat model
// is not configured.
const UnavailableMessage = "The assistant is unavailable due to a configuration error."

// Generator renders the assistant system prompt, assembles it with the
// session transcript and asks the chat model for a reply. The transcript
// already ends with the current user turn when Reply is called.
type Generator struct {
	chatModel einomodel.BaseChatModel
	modelName string
	repo      model.ConversationRepository
	prompt    model.PromptConfig
	timeout   time.Duration
}

// NewGenerator wires the generator. chatModel may be nil when the model
// API key is missing; Reply then substitutes the fixed unavailable message
// without calling out.
func NewGenerator(chatModel einomodel.BaseChatModel, modelName string, repo model.ConversationRepository, promptCfg model.PromptConfig, timeout time.Duration) *Generator {
	return &Generator{
		chatModel: chatModel,
		modelName: modelName,
		repo:      repo,
		prompt:    promptCfg,
		timeout:   timeout,
	}
}

// Reply generates one assistant reply for the session. contextData is the
// optional lookup result injected into the system prompt; the generated
// text is returned verbatim, including any directive the model emits.
func (g *Generator) Reply(ctx context.Context, sessionID string, contextData string) (string, error) {
	if g.chatModel == nil {
		return UnavailableMessage, nil
	}

	systemPrompt, err := prompts.RenderAssistantSystem(ctx, g.prompt, contextData)
	if err != nil {
		return "", fmt.Errorf("render assistant system prompt: %w", err)
	}

	history, err := g.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}

	messages := make([]*schema.Message, 0, len(history.Messages)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history.Messages...)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if out == nil {
		return "", fmt.Errorf("generate reply: empty result")
	}

	g.logUsage(sessionID, out)
	return out.Content, nil
}

// logUsage records token usage and USD cost for one model invocation.
func (g *Generator) logUsage(sessionID string, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(g.modelName))
	logx.Debug().
		Str("session_id", sessionID).
		Str("model", g.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
