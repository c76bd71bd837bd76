package routing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/twilio/twilio-go"
	taskrouter "github.com/twilio/twilio-go/rest/taskrouter/v1"

	errx "github.com/wfm-skills-assist/server/internal/core/error"
	logx "github.com/wfm-skills-assist/server/pkg/logger"
)

// Config holds the routing backend credentials and tuning knobs, sourced
// from environment variables. Credentials carry no `required` tag: absence
// is a configuration error surfaced to the user, never a startup crash.
type Config struct {
	AccountSID   string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken    string `envconfig:"TWILIO_AUTH_TOKEN"`
	WorkspaceSID string `envconfig:"TWILIO_WORKSPACE_SID"`

	RequestTimeout  int    `envconfig:"TWILIO_REQUEST_TIMEOUT" default:"10"`
	SkillsCacheTTL  string `envconfig:"SKILLS_CACHE_TTL" default:"10m"`
	SkillsCacheSize int    `envconfig:"SKILLS_CACHE_SIZE" default:"128"`
}

// Configured reports whether all three backend secrets are present.
func (c *Config) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.WorkspaceSID != ""
}

// Worker is the slice of a TaskRouter worker record this assistant needs.
// Attributes is the raw JSON attributes payload as returned by the backend.
type Worker struct {
	Sid          string
	FriendlyName string
	Attributes   string
}

// TaskQueue identifies a routing queue by its display name.
type TaskQueue struct {
	Sid          string
	FriendlyName string
}

// Backend is the surface of the workforce-routing API this assistant
// consumes. Implemented over the Twilio TaskRouter SDK in production and
// faked in tests.
type Backend interface {
	ListWorkers(ctx context.Context) ([]Worker, error)
	ListTaskQueues(ctx context.Context) ([]TaskQueue, error)
	// FetchQueueRealTimeStats returns the queue's real-time statistics as an
	// opaque JSON payload; the assistant passes it through uninterpreted.
	FetchQueueRealTimeStats(ctx context.Context, queueSid string) (json.RawMessage, error)
}

type twilioBackend struct {
	rest         *twilio.RestClient
	workspaceSID string
}

// NewBackend builds the TaskRouter-backed Backend, or nil when the
// credentials are missing. The client is process-wide and reused read-only
// across all turns; a bounded request timeout applies to every call.
func (c *Config) NewBackend() Backend {
	if !c.Configured() {
		logx.Warn().Msg("routing backend credentials missing; lookups are disabled")
		return nil
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: c.AccountSID,
		Password: c.AuthToken,
	})
	rest.Client.SetTimeout(time.Duration(c.RequestTimeout) * time.Second)

	return &twilioBackend{rest: rest, workspaceSID: c.WorkspaceSID}
}

func (t *twilioBackend) ListWorkers(ctx context.Context) ([]Worker, error) {
	records, err := t.rest.TaskrouterV1.ListWorker(t.workspaceSID, &taskrouter.ListWorkerParams{})
	if err != nil {
		logx.Error().Err(err).Str("workspace_sid", t.workspaceSID).Msg("failed to list workers")
		return nil, errx.WrapRouting(err)
	}

	workers := make([]Worker, 0, len(records))
	for _, rec := range records {
		w := Worker{}
		if rec.Sid != nil {
			w.Sid = *rec.Sid
		}
		if rec.FriendlyName != nil {
			w.FriendlyName = *rec.FriendlyName
		}
		if rec.Attributes != nil {
			w.Attributes = *rec.Attributes
		}
		workers = append(workers, w)
	}
	return workers, nil
}

func (t *twilioBackend) ListTaskQueues(ctx context.Context) ([]TaskQueue, error) {
	records, err := t.rest.TaskrouterV1.ListTaskQueue(t.workspaceSID, &taskrouter.ListTaskQueueParams{})
	if err != nil {
		logx.Error().Err(err).Str("workspace_sid", t.workspaceSID).Msg("failed to list task queues")
		return nil, errx.WrapRouting(err)
	}

	queues := make([]TaskQueue, 0, len(records))
	for _, rec := range records {
		q := TaskQueue{}
		if rec.Sid != nil {
			q.Sid = *rec.Sid
		}
		if rec.FriendlyName != nil {
			q.FriendlyName = *rec.FriendlyName
		}
		queues = append(queues, q)
	}
	return queues, nil
}

func (t *twilioBackend) FetchQueueRealTimeStats(ctx context.Context, queueSid string) (json.RawMessage, error) {
	stats, err := t.rest.TaskrouterV1.FetchTaskQueueRealTimeStatistics(t.workspaceSID, queueSid, &taskrouter.FetchTaskQueueRealTimeStatisticsParams{})
	if err != nil {
		logx.Error().Err(err).Str("queue_sid", queueSid).Msg("failed to fetch queue real-time statistics")
		return nil, errx.WrapRouting(err)
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, errx.WrapRouting(err)
	}
	return payload, nil
}
