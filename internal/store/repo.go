package store

import (
	"context"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	SessionID string // only events of this session
}

// ProgressRepo persists per-question progress records.
type ProgressRepo interface {
	// Load returns all decodable records. Records that fail to decode are
	// skipped with a warning so their questions count as unseen.
	Load(ctx context.Context) (mastery.Progress, error)

	// Save replaces the record of r.QuestionID.
	Save(ctx context.Context, r mastery.Record) error

	// Reset deletes every record.
	Reset(ctx context.Context) error
}

// ProgressReplacer is implemented by backends that can swap the whole
// progress set atomically. Restore prefers it over Reset followed by Save.
type ProgressReplacer interface {
	Replace(ctx context.Context, p mastery.Progress) error
}

// SnapshotData captures the learner state at a point in time.
type SnapshotData struct {
	Version  int                  `json:"version"`
	Reason   string               `json:"reason,omitempty"`
	Progress []mastery.RecordData `json:"progress,omitempty"`
	Stats    *stats.Stats         `json:"stats,omitempty"`
}

// SnapshotVersion is the current SnapshotData layout.
const SnapshotVersion = 1

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// AnswerEventData captures one answered question.
type AnswerEventData struct {
	SessionID        string
	QuestionID       string
	TopicID          string
	ChosenIndex      int
	CorrectIndex     int
	Correct          bool
	ConfidenceBefore int
	ConfidenceAfter  int
	TimeMs           int64
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID       string
	Action          string
	Mode            string
	TopicID         string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
	Passed          bool
}

// SessionSummaryRecord is a finished session as read back from the log.
type SessionSummaryRecord struct {
	SessionID       string
	Timestamp       time.Time
	Mode            string
	TopicID         string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
	Passed          bool
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendAnswerEvent records an answered question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryAnswerEvents returns answer events, newest first.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
}

// StatsRepo persists the learner's statistics document.
type StatsRepo interface {
	LoadStats(ctx context.Context) (stats.Stats, error)
	SaveStats(ctx context.Context, s stats.Stats) error
}

// SettingsRepo persists the learner's settings.
type SettingsRepo interface {
	// LoadSettings returns saved settings, or the defaults when none are
	// saved.
	LoadSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
}
