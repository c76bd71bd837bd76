package routing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	errx "github.com/wfm-skills-assist/server/internal/core/error"
	logx "github.com/wfm-skills-assist/server/pkg/logger"
)

// NoSkills is reported when a matched agent has an empty skill list. It is
// a successful lookup outcome, distinct from the agent not being found.
const NoSkills = "None"

// queueKeyword maps a lowercase keyword phrase to a queue display name.
// The table is scanned in declaration order and the first key that is a
// substring of the input wins, so more specific phrases must be declared
// before shorter ones that could also match.
type queueKeyword struct {
	keyword   string
	queueName string
}

var queueKeywords = []queueKeyword{
	{"business voice", "Voice Global Business"},
	{"ts consumer", "Total Service Consumer"},
	{"consumer voice", "Voice Global Consumer"},
	{"business chat", "Chat Global Business"},
}

// Directory resolves agents and queues against the routing backend. The
// backend may be nil when credentials are missing; every lookup then
// reports the not-configured error instead of calling out.
type Directory struct {
	backend Backend
	cache   *expirable.LRU[string, string]
}

// NewDirectory builds a Directory with a bounded-TTL cache of successful
// skill lookups. A non-positive cache size disables caching.
func NewDirectory(backend Backend, cacheSize int, cacheTTL time.Duration) *Directory {
	d := &Directory{backend: backend}
	if cacheSize > 0 {
		d.cache = expirable.NewLRU[string, string](cacheSize, nil, cacheTTL)
	}
	return d
}

// FindAgentSkills scans the workspace's workers for one whose friendly name
// or attributes email equals query (case-insensitive) and returns the
// agent's skill list joined with ", ", or NoSkills when the list is empty.
// The first match in backend list order wins; that order is not guaranteed
// stable, so two workers sharing a display name resolve non-deterministically.
// found is false when no worker with the Agent role matched.
func (d *Directory) FindAgentSkills(ctx context.Context, query string) (skills string, found bool, err error) {
	if d.backend == nil {
		return "", false, errx.ErrNotConfigured
	}

	key := strings.ToLower(strings.TrimSpace(query))
	if d.cache != nil {
		if cached, ok := d.cache.Get(key); ok {
			logx.Debug().Str("query", key).Msg("skill lookup served from cache")
			return cached, true, nil
		}
	}

	workers, err := d.backend.ListWorkers(ctx)
	if err != nil {
		return "", false, err
	}

	for _, w := range workers {
		attrs := DecodeAgentAttributes(w.Attributes)
		if !strings.EqualFold(w.FriendlyName, key) && !strings.EqualFold(attrs.Email, key) {
			continue
		}
		if !attrs.HasRole(AgentRole) {
			continue
		}

		skills = NoSkills
		if len(attrs.Skills) > 0 {
			skills = strings.Join(attrs.Skills, ", ")
		}
		if d.cache != nil {
			d.cache.Add(key, skills)
		}
		logx.Debug().Str("query", key).Str("worker_sid", w.Sid).Msg("agent matched")
		return skills, true, nil
	}

	return "", false, nil
}

// MatchQueueKeyword resolves a free-text input to a canonical queue display
// name via the static keyword table. Purely lexical; no backend call.
func MatchQueueKeyword(input string) (queueName string, ok bool) {
	lowered := strings.ToLower(input)
	for _, qk := range queueKeywords {
		if strings.Contains(lowered, qk.keyword) {
			return qk.queueName, true
		}
	}
	return "", false
}

// GetQueueStats maps the input through the keyword table, resolves the
// queue by exact display-name match and fetches its real-time statistics.
// found is false when no keyword or no queue matched. Results are never
// cached; every call reflects the backend's current numbers.
func (d *Directory) GetQueueStats(ctx context.Context, input string) (snapshot json.RawMessage, queueName string, found bool, err error) {
	if d.backend == nil {
		return nil, "", false, errx.ErrNotConfigured
	}

	queueName, ok := MatchQueueKeyword(input)
	if !ok {
		return nil, "", false, nil
	}

	queues, err := d.backend.ListTaskQueues(ctx)
	if err != nil {
		return nil, queueName, false, err
	}

	for _, q := range queues {
		if q.FriendlyName != queueName {
			continue
		}
		snapshot, err = d.backend.FetchQueueRealTimeStats(ctx, q.Sid)
		if err != nil {
			return nil, queueName, false, err
		}
		logx.Debug().Str("queue", queueName).Str("queue_sid", q.Sid).Msg("queue statistics fetched")
		return snapshot, queueName, true, nil
	}

	return nil, queueName, false, nil
}
