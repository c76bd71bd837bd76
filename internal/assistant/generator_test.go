package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfm-skills-assist/server/internal/assistant/model"
	"github.com/wfm-skills-assist/server/internal/assistant/repo"
)

func newTestGenerator(chatModel *fakeChatModel) (*Generator, model.ConversationRepository) {
	convRepo := repo.NewMemoryConversationRepository()
	gen := NewGenerator(chatModel, "gemini-2.5-flash", convRepo, model.PromptConfig{
		BusinessName: "Wise",
		TeamName:     "Workforce Management",
	}, time.Second)
	return gen, convRepo
}

func TestReply_UnavailableWithoutChatModel(t *testing.T) {
	convRepo := repo.NewMemoryConversationRepository()
	gen := NewGenerator(nil, "gemini-2.5-flash", convRepo, model.PromptConfig{}, time.Second)

	reply, err := gen.Reply(context.Background(), "sess-1", "")

	require.NoError(t, err)
	assert.Equal(t, UnavailableMessage, reply)
}

func TestReply_ReturnsGeneratedTextVerbatim(t *testing.T) {
	chatModel := &fakeChatModel{replies: []string{"  Here you go!  "}}
	gen, _ := newTestGenerator(chatModel)

	reply, err := gen.Reply(context.Background(), "sess-1", "")

	require.NoError(t, err)
	assert.Equal(t, "  Here you go!  ", reply)
}

func TestReply_PrependsSystemPromptToTranscript(t *testing.T) {
	chatModel := &fakeChatModel{replies: []string{"ok"}}
	gen, convRepo := newTestGenerator(chatModel)

	ctx := context.Background()
	require.NoError(t, convRepo.AddMessage(ctx, "sess-1", schema.UserMessage("hello")))
	require.NoError(t, convRepo.AddMessage(ctx, "sess-1", schema.AssistantMessage("hi, which agent?", nil)))
	require.NoError(t, convRepo.AddMessage(ctx, "sess-1", schema.UserMessage("john@co.com")))

	_, err := gen.Reply(ctx, "sess-1", "")
	require.NoError(t, err)

	require.Len(t, chatModel.calls, 1)
	msgs := chatModel.calls[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Workforce Management")
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "john@co.com", msgs[3].Content)
}

func TestReply_InjectsContextData(t *testing.T) {
	chatModel := &fakeChatModel{replies: []string{"ok"}}
	gen, _ := newTestGenerator(chatModel)

	_, err := gen.Reply(context.Background(), "sess-1", "The agent john@co.com has the following skills: english")
	require.NoError(t, err)

	system := chatModel.systemPrompt(t, 0)
	assert.Contains(t, system, "Lookup Data: The agent john@co.com has the following skills: english")
}

func TestReply_OmitsLookupDataSectionWithoutContext(t *testing.T) {
	chatModel := &fakeChatModel{replies: []string{"ok"}}
	gen, _ := newTestGenerator(chatModel)

	_, err := gen.Reply(context.Background(), "sess-1", "")
	require.NoError(t, err)

	assert.NotContains(t, chatModel.systemPrompt(t, 0), "Lookup Data:")
}
