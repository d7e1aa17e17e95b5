package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
}

// DrillStartData is written when a drill enters the active phase.
type DrillStartData struct {
	SessionID   string
	Category    string
	Subcategory string
	Difficulty  int
	Duration    time.Duration
	StartedAt   time.Time
}

// DrillEndData is written once when a drill finishes.
type DrillEndData struct {
	SessionID       string
	EndedAt         time.Time
	Attempted       int
	Correct         int
	Accuracy        float64
	FinalDifficulty int
	StoppedEarly    bool
}

// DrillAnswerData captures one scored submission.
type DrillAnswerData struct {
	SessionID   string
	Category    string
	Subcategory string
	Difficulty  int
	Question    string
	Expected    string
	Given       string
	Correct     bool
	AnsweredAt  time.Time
}

// DrillRecord is a stored drill, finished or abandoned.
type DrillRecord struct {
	SessionID       string
	Category        string
	Subcategory     string
	Difficulty      int
	Duration        time.Duration
	StartedAt       time.Time
	EndedAt         time.Time // zero if the drill never finished
	Attempted       int
	Correct         int
	Accuracy        float64
	FinalDifficulty int
	StoppedEarly    bool
	Finished        bool
}

// AnswerRecord is a stored submission.
type AnswerRecord struct {
	Sequence int64
	DrillAnswerData
}

// CategoryTotal sums finished drills for one category.
type CategoryTotal struct {
	Category  string
	Drills    int
	Attempted int
	Correct   int
}

// SparringAnswerData captures a sparring reply and optional coach feedback.
type SparringAnswerData struct {
	SessionID string
	Topic     string
	Prompt    string
	Answer    string
	Score     int // 0 when no feedback was requested
	Feedback  string
}

// SparringAnswerRecord is a stored sparring reply.
type SparringAnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	SparringAnswerData
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
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM requests for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMModelUsage aggregates token counts for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to drill, sparring and LLM
// events.
type EventRepo interface {
	AppendDrillStart(ctx context.Context, data DrillStartData) error
	AppendDrillAnswer(ctx context.Context, data DrillAnswerData) error
	AppendDrillEnd(ctx context.Context, data DrillEndData) error

	// RecentDrills returns drills newest first.
	RecentDrills(ctx context.Context, opts QueryOpts) ([]DrillRecord, error)

	// DrillAnswers returns a drill's submissions in answer order.
	DrillAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// CategoryTotals sums finished drills per category, ordered by name.
	CategoryTotals(ctx context.Context) ([]CategoryTotal, error)

	AppendSparringAnswer(ctx context.Context, data SparringAnswerData) error
	SparringAnswers(ctx context.Context, sessionID string) ([]SparringAnswerRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns nil, nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
