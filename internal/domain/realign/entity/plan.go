package entity

import (
	"fmt"
	"time"
)

// Cancellation reasons used by the plan builder. Both describe expected
// conditions, not failures: zero-slot calendars and overflow are part of
// normal operation.
const (
	ReasonNoSlotsConfigured   = "No schedule slots configured for platform/clip type"
	ReasonNoSlotWithinHorizon = "No available slot within horizon"
)

// PostAssignment moves one post to a new publication slot
type PostAssignment struct {
	Post            *Post      `json:"post"`
	Platform        Platform   `json:"platform"`
	ClipType        ClipType   `json:"clip_type"`
	OldScheduledFor *time.Time `json:"old_scheduled_for,omitempty"`
	NewScheduledFor time.Time  `json:"new_scheduled_for"`
}

// Cancellation marks one post for cancellation in the remote store
type Cancellation struct {
	Post     *Post    `json:"post"`
	Platform Platform `json:"platform"`
	ClipType ClipType `json:"clip_type"`
	Reason   string   `json:"reason"`
}

// RealignPlan is the complete outcome of one planning pass: slot
// reassignments sorted ascending by new slot, cancellations, and the
// skip/unmatched counters. A plan is built fresh on every invocation,
// immutable once returned, and consumed exactly once by the executor.
type RealignPlan struct {
	BuiltAt      time.Time        `json:"built_at"`
	Posts        []PostAssignment `json:"posts"`
	ToCancel     []Cancellation   `json:"to_cancel"`
	Skipped      int              `json:"skipped"`
	Unmatched    int              `json:"unmatched"`
	TotalFetched int              `json:"total_fetched"`
}

// Validate checks the plan's structural invariant: every post appears at
// most once across assignments and cancellations. A violation means the
// plan builder is defective, so callers should treat the returned error
// as fatal rather than a runtime condition.
func (p *RealignPlan) Validate() error {
	seen := make(map[string]struct{}, len(p.Posts)+len(p.ToCancel))
	mark := func(post *Post) error {
		if post == nil || post.ID == "" {
			return fmt.Errorf("%w: entry without a post id", ErrMalformedPlan)
		}
		if _, dup := seen[post.ID]; dup {
			return fmt.Errorf("%w: post %s appears more than once", ErrMalformedPlan, post.ID)
		}
		seen[post.ID] = struct{}{}
		return nil
	}

	for _, a := range p.Posts {
		if err := mark(a.Post); err != nil {
			return err
		}
	}
	for _, c := range p.ToCancel {
		if err := mark(c.Post); err != nil {
			return err
		}
	}
	return nil
}

// ExecutionError records a single failed store operation
type ExecutionError struct {
	PostID string `json:"post_id"`
	Err    string `json:"error"`
}

// ExecutionResult summarizes one executor run. Per-item store failures
// are collected here and never abort the run.
type ExecutionResult struct {
	Updated   int              `json:"updated"`
	Cancelled int              `json:"cancelled"`
	Failed    int              `json:"failed"`
	Errors    []ExecutionError `json:"errors,omitempty"`
}
