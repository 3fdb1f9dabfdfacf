package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
	"github.com/vadim/clipcast/internal/domain/realign/service"
)

// PostSource lists posts out of the remote publishing store.
// Interface is defined by consumer (policy), not provider (the postiz
// adapter).
type PostSource interface {
	ListPosts(ctx context.Context, status entity.PostStatus) ([]entity.Post, error)
}

// PlanArchive persists executed plans as audit artifacts. Archiving is
// best effort: a failure is logged, never surfaced to the caller.
type PlanArchive interface {
	ArchivePlan(ctx context.Context, runID string, plan *entity.RealignPlan) (string, error)
}

// DefaultStatuses is the pool assembled when a caller does not name
// statuses explicitly: everything that still competes for a slot.
var DefaultStatuses = []entity.PostStatus{entity.PostStatusScheduled, entity.PostStatusDraft}

// Policy orchestrates realignment use-cases
type Policy struct {
	svc     *service.Service
	source  PostSource
	archive PlanArchive
	rules   []entity.PriorityRule
	logger  *slog.Logger
}

// New creates a new realignment policy. archive may be nil.
func New(svc *service.Service, source PostSource, archive PlanArchive, rules []entity.PriorityRule, logger *slog.Logger) *Policy {
	return &Policy{
		svc:     svc,
		source:  source,
		archive: archive,
		rules:   rules,
		logger:  logger,
	}
}

// RealignInput represents input for a realignment run
type RealignInput struct {
	Statuses []entity.PostStatus
	DryRun   bool
}

// RealignOutput represents output from a realignment run. Result and
// ArchiveKey are empty for dry runs.
type RealignOutput struct {
	RunID      string
	Plan       *entity.RealignPlan
	Result     *entity.ExecutionResult
	ArchiveKey string
}

// Realign assembles the post pool from the store (one list call per
// requested status, fetch order preserved), builds a plan, and — unless
// DryRun is set — executes it and archives the plan.
func (p *Policy) Realign(ctx context.Context, in RealignInput) (*RealignOutput, error) {
	statuses := in.Statuses
	if len(statuses) == 0 {
		statuses = DefaultStatuses
	}

	var pool []entity.Post
	for _, status := range statuses {
		posts, err := p.source.ListPosts(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("listing %s posts: %w", status, err)
		}
		pool = append(pool, posts...)
	}

	runID := uuid.New().String()
	plan := p.svc.BuildPlan(ctx, pool, p.rules, time.Now())

	p.logger.Info("realign plan built",
		"run_id", runID,
		"dry_run", in.DryRun,
		"total_fetched", plan.TotalFetched,
		"assignments", len(plan.Posts),
		"cancellations", len(plan.ToCancel),
		"skipped", plan.Skipped,
		"unmatched", plan.Unmatched,
	)

	out := &RealignOutput{RunID: runID, Plan: plan}
	if in.DryRun {
		return out, nil
	}

	result, err := p.svc.ExecutePlan(ctx, plan, p.progressLogger(runID))
	out.Result = result
	if err != nil {
		return out, err
	}

	if p.archive != nil {
		key, err := p.archive.ArchivePlan(ctx, runID, plan)
		if err != nil {
			p.logger.Error("archiving plan failed", "run_id", runID, "error", err)
		} else {
			out.ArchiveKey = key
		}
	}

	p.logger.Info("realign run finished",
		"run_id", runID,
		"updated", result.Updated,
		"cancelled", result.Cancelled,
		"failed", result.Failed,
	)

	return out, nil
}

// PreviewPlan builds a plan without touching the store
func (p *Policy) PreviewPlan(ctx context.Context, statuses []entity.PostStatus) (*RealignOutput, error) {
	return p.Realign(ctx, RealignInput{Statuses: statuses, DryRun: true})
}

// ProcessScheduledRealign runs a full realignment pass with defaults.
// This is the entry point for the periodic scheduler.
func (p *Policy) ProcessScheduledRealign(ctx context.Context) error {
	_, err := p.Realign(ctx, RealignInput{})
	return err
}

func (p *Policy) progressLogger(runID string) service.ProgressFunc {
	return func(completed, total int, phase string) {
		p.logger.Debug("realign progress",
			"run_id", runID,
			"phase", phase,
			"completed", completed,
			"total", total,
		)
	}
}
