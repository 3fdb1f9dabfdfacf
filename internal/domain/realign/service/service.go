package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// ClipTypeIndex resolves the pipeline clip type behind a post. Misses
// are expected (manually created posts have no published item) and are
// reported through the plan's unmatched counter, never as errors.
type ClipTypeIndex interface {
	LookupClipType(ctx context.Context, postID string) (entity.ClipType, bool, error)
}

// PostStore is the slice of the remote publishing API the executor
// needs. SchedulePost is deliberately distinct from a generic field
// update: the store reschedules the post in place and clears its draft
// flag, preserving identity and content.
type PostStore interface {
	SchedulePost(ctx context.Context, id string, scheduledFor time.Time) (*entity.Post, error)
	UpdatePostStatus(ctx context.Context, id string, status entity.PostStatus) (*entity.Post, error)
}

// RandSource supplies draws in [0, 1) for saturation checks. Production
// wiring passes a real PRNG; tests pass scripted sequences so plans are
// reproducible.
type RandSource func() float64

// ProgressFunc receives executor progress after every store operation.
// completed is monotonic across both phases.
type ProgressFunc func(completed, total int, phase string)

// Executor phases reported through ProgressFunc
const (
	PhaseScheduling = "scheduling"
	PhaseCancelling = "cancelling"
)

// Service implements the realignment core: slot generation, rule
// queues, plan building and plan execution. It never mutates the
// schedule config or the post pool; both are read-only snapshots for
// the duration of a pass.
type Service struct {
	cfg         entity.ScheduleConfig
	index       ClipTypeIndex
	store       PostStore
	rand        RandSource
	horizonDays int
	logger      *slog.Logger
}

// New creates the realignment service. A horizonDays of zero selects
// DefaultHorizonDays.
func New(cfg entity.ScheduleConfig, index ClipTypeIndex, store PostStore, rnd RandSource, horizonDays int, logger *slog.Logger) *Service {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Service{
		cfg:         cfg,
		index:       index,
		store:       store,
		rand:        rnd,
		horizonDays: horizonDays,
		logger:      logger,
	}
}
