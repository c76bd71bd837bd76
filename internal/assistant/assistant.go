package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/wfm-skills-assist/server/internal/assistant/model"
	"github.com/wfm-skills-assist/server/internal/assistant/prompts"
	errx "github.com/wfm-skills-assist/server/internal/core/error"
	"github.com/wfm-skills-assist/server/internal/routing"
	logx "github.com/wfm-skills-assist/server/pkg/logger"
)

// State is the dialogue controller's per-session conversation state.
type State string

const (
	StateInitial         State = "INITIAL"
	StateWaitingForEmail State = "WAITING_FOR_EMAIL"
	StateSearching       State = "SEARCHING"
)

const (
	// Greeting opens every fresh session.
	Greeting = "Hello! I am the Skills Assistant. Which agent or email would you like to check skills for? I can also report real-time queue statistics."

	replyAskEmail = "Understood. For a more accurate search, please provide ONLY the agent's email address (e.g., agent@wise.com)."

	skillsDataFormat = "The agent %s has the following skills: %s"
	statsDataFormat  = "The queue %s is reporting these real-time statistics: %s"
)

// Session holds the per-session dialogue state. Created on the first turn,
// discarded on session end; never shared across sessions.
type Session struct {
	ID    string
	State State
}

// NewSession mints a session with a fresh identifier in the initial state.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), State: StateInitial}
}

// Assistant is the dialogue controller. It owns the conversation policy:
// per turn it either asks for clarification, performs exactly one lookup,
// or passes through to the generator, and it appends both the user turn
// and the final reply to the transcript.
type Assistant struct {
	dir  *routing.Directory
	gen  *Generator
	repo model.ConversationRepository
}

func NewAssistant(dir *routing.Directory, gen *Generator, repo model.ConversationRepository) *Assistant {
	return &Assistant{dir: dir, gen: gen, repo: repo}
}

// Greet emits the opening greeting for a session with an empty transcript
// and records it. Returns "" when the session already has history.
func (a *Assistant) Greet(ctx context.Context, sess *Session) string {
	n, err := a.repo.GetMessageCount(ctx, sess.ID)
	if err != nil || n > 0 {
		return ""
	}
	a.appendTurn(ctx, sess.ID, schema.AssistantMessage(Greeting, nil))
	return Greeting
}

// ProcessTurn handles one user input: it appends the user turn, decides on
// clarification vs. lookup, generates the reply and appends it. Failures
// from the backend or the generator become the reply text; nothing
// propagates to terminate the session.
func (a *Assistant) ProcessTurn(ctx context.Context, sess *Session, input string) string {
	a.appendTurn(ctx, sess.ID, schema.UserMessage(input))
	reply := a.respond(ctx, sess, input)
	a.appendTurn(ctx, sess.ID, schema.AssistantMessage(reply, nil))
	return reply
}

func (a *Assistant) respond(ctx context.Context, sess *Session, input string) string {
	query := strings.TrimSpace(input)

	// A queue keyword anywhere in the input wins over the skills flow.
	if _, ok := routing.MatchQueueKeyword(input); ok {
		sess.State = StateInitial
		return a.queueStatsReply(ctx, sess.ID, input)
	}

	switch {
	case sess.State == StateWaitingForEmail:
		// Whatever was typed is the search query now.
		sess.State = StateSearching
	case sess.State == StateInitial && !strings.Contains(query, "@"):
		// Bare name: ask the user to resupply as an email.
		sess.State = StateWaitingForEmail
		return replyAskEmail
	}

	reply := a.skillsReply(ctx, sess.ID, query)
	sess.State = StateInitial
	return reply
}

func (a *Assistant) skillsReply(ctx context.Context, sessionID, query string) string {
	skills, found, err := a.dir.FindAgentSkills(ctx, query)
	switch {
	case err != nil:
		return lookupErrorReply(err)
	case !found:
		return agentNotFoundReply(query)
	}
	return a.generate(ctx, sessionID, fmt.Sprintf(skillsDataFormat, query, skills))
}

func (a *Assistant) queueStatsReply(ctx context.Context, sessionID, input string) string {
	snapshot, queueName, found, err := a.dir.GetQueueStats(ctx, input)
	switch {
	case err != nil:
		return lookupErrorReply(err)
	case !found:
		return fmt.Sprintf("I could not find the queue '%s' right now. Please verify the queue and try again.", queueName)
	}
	return a.generate(ctx, sessionID, fmt.Sprintf(statsDataFormat, queueName, snapshot))
}

// generate calls the response generator and applies the directive
// protocol: a reply of the exact shape "ACTION_SEARCH_SKILLS: <query>" is
// intercepted, the skill lookup runs here, and one more generator call is
// issued with the result injected. The raw directive is never shown.
func (a *Assistant) generate(ctx context.Context, sessionID, contextData string) string {
	reply, err := a.gen.Reply(ctx, sessionID, contextData)
	if err != nil {
		return generationErrorReply(err)
	}

	if payload, ok := strings.CutPrefix(strings.TrimSpace(reply), prompts.DirectiveSearchSkills); ok {
		query := strings.TrimSpace(payload)
		logx.Debug().Str("session_id", sessionID).Str("query", query).Msg("search directive received")

		skills, found, err := a.dir.FindAgentSkills(ctx, query)
		switch {
		case err != nil:
			return lookupErrorReply(err)
		case !found:
			return agentNotFoundReply(query)
		}

		reply, err = a.gen.Reply(ctx, sessionID, fmt.Sprintf(skillsDataFormat, query, skills))
		if err != nil {
			return generationErrorReply(err)
		}
	}
	return reply
}

func agentNotFoundReply(query string) string {
	return fmt.Sprintf("Agent '%s' was not found. Please verify the name or email and try again.", query)
}

func lookupErrorReply(err error) string {
	if errors.Is(err, errx.ErrNotConfigured) {
		return "The search backend is unavailable due to a configuration error."
	}
	return fmt.Sprintf("Error searching in the routing backend: %v", err)
}

func generationErrorReply(err error) string {
	return fmt.Sprintf("Error generating the response: %v", err)
}

// appendTurn records a transcript turn; storage failures are logged and
// otherwise ignored so a Redis hiccup never ends the session.
func (a *Assistant) appendTurn(ctx context.Context, sessionID string, msg *schema.Message) {
	if err := a.repo.AddMessage(ctx, sessionID, msg); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to append transcript turn")
	}
}
