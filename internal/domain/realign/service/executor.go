package service

import (
	"context"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// ExecutePlan applies a plan against the remote post store: the
// scheduling pass rewrites each assignment's slot, then the
// cancellation pass flips the overflow posts to cancelled. Store
// failures are isolated per item — recorded in the result's errors,
// counted as failed, and never abort the run. The returned error is
// non-nil only for a malformed plan or a cancelled context.
//
// Writes are issued sequentially on purpose: the store is rate limited
// and the audit trail depends on a deterministic write order. Context
// cancellation stops new store calls after the current one completes;
// nothing already written is rolled back.
func (s *Service) ExecutePlan(ctx context.Context, plan *entity.RealignPlan, onProgress ProgressFunc) (*entity.ExecutionResult, error) {
	if plan == nil {
		return nil, entity.ErrMalformedPlan
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	result := &entity.ExecutionResult{}
	total := len(plan.Posts) + len(plan.ToCancel)
	completed := 0

	report := func(phase string) {
		completed++
		if onProgress != nil {
			onProgress(completed, total, phase)
		}
	}
	record := func(postID string, err error) {
		result.Failed++
		result.Errors = append(result.Errors, entity.ExecutionError{PostID: postID, Err: err.Error()})
	}

	for _, a := range plan.Posts {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, err := s.store.SchedulePost(ctx, a.Post.ID, a.NewScheduledFor); err != nil {
			s.logger.Error("rescheduling post failed",
				"post_id", a.Post.ID,
				"platform", a.Platform,
				"scheduled_for", a.NewScheduledFor,
				"error", err,
			)
			record(a.Post.ID, err)
		} else {
			result.Updated++
		}
		report(PhaseScheduling)
	}

	for _, c := range plan.ToCancel {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, err := s.store.UpdatePostStatus(ctx, c.Post.ID, entity.PostStatusCancelled); err != nil {
			s.logger.Error("cancelling post failed",
				"post_id", c.Post.ID,
				"platform", c.Platform,
				"reason", c.Reason,
				"error", err,
			)
			record(c.Post.ID, err)
		} else {
			result.Cancelled++
		}
		report(PhaseCancelling)
	}

	return result, nil
}
