package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/wfm-skills-assist/server/internal/assistant"
	"github.com/wfm-skills-assist/server/internal/assistant/model"
	"github.com/wfm-skills-assist/server/internal/assistant/repo"
	"github.com/wfm-skills-assist/server/internal/core"
	"github.com/wfm-skills-assist/server/internal/routing"
	logx "github.com/wfm-skills-assist/server/pkg/logger"
	pkgredis "github.com/wfm-skills-assist/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Routing      routing.Config
	Generator    model.GeneratorModelConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	// Transcript store: Redis when configured, in-memory otherwise.
	var convRepo model.ConversationRepository = repo.NewMemoryConversationRepository()
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.Conversation.TTL)
		if err != nil {
			log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", cfg.Conversation.TTL, err)
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Warn().Err(err).Msg("Redis unavailable; keeping transcripts in memory")
		} else {
			defer rdb.Close()
			convRepo = repo.NewRedisConversationRepository(rdb, ttl)
		}
	}

	// Routing backend: missing credentials disable lookups, not the session.
	backend := cfg.Routing.NewBackend()
	if backend == nil {
		fmt.Println("Configuration Error: Missing routing backend credentials (SID or Token/Workspace SID). Lookups are disabled.")
	}
	cacheTTL, err := time.ParseDuration(cfg.Routing.SkillsCacheTTL)
	if err != nil {
		log.Fatalf("Invalid SKILLS_CACHE_TTL '%s': %v", cfg.Routing.SkillsCacheTTL, err)
	}
	dir := routing.NewDirectory(backend, cfg.Routing.SkillsCacheSize, cacheTTL)

	// Response generator: a missing API key substitutes a fixed message.
	genModel, buildErr := buildChatModel(ctx, cfg)
	if buildErr != nil {
		logx.Warn().Err(buildErr).Msg("response model unavailable; generation is disabled")
	}
	gen := assistant.NewGenerator(genModel, cfg.Generator.Model, convRepo, cfg.Prompt,
		time.Duration(cfg.Generator.Timeout)*time.Second)

	asst := assistant.NewAssistant(dir, gen, convRepo)
	sess := assistant.NewSession()

	fmt.Println("Agent Skills Assistant (WFM)")
	if greeting := asst.Greet(ctx, sess); greeting != "" {
		fmt.Printf("assistant: %s\n", greeting)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply := asst.ProcessTurn(ctx, sess, input)
		fmt.Printf("assistant: %s\n", reply)
	}

	logx.Info().Str("session_id", sess.ID).Msg("session ended")
}

// buildChatModel creates the Gemini chat model, or returns nil when the
// API key is absent so the generator falls back to its fixed message.
func buildChatModel(ctx context.Context, cfg AppConfig) (einomodel.BaseChatModel, error) {
	if cfg.APIKey == "" {
		fmt.Println("Configuration Error: The GEMINI_API_KEY was not found. Generation is disabled.")
		return nil, nil
	}
	return assistant.NewGeminiChatModel(ctx, cfg.APIKey, cfg.BaseURL, cfg.Generator)
}
