package service

import (
	"context"
	"sort"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// BuildPlan recomputes the publication slot of every post in the pool
// and returns the resulting plan. Platforms are planned independently;
// within a platform, posts are split by resolved clip type because the
// effective calendar (and therefore the candidate slot sequence) is a
// function of clip type. The final assignment list is sorted ascending
// by new slot across all groups.
//
// BuildPlan never fails: configuration gaps become cancellations,
// clip-type lookup problems become unmatched counts. The only I/O is
// the clip-type lookup; everything else is a pure function of the pool,
// the rules, the injected random source and now.
func (s *Service) BuildPlan(ctx context.Context, pool []entity.Post, rules []entity.PriorityRule, now time.Time) *entity.RealignPlan {
	loc := s.cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	plan := &entity.RealignPlan{BuiltAt: now, TotalFetched: len(pool)}

	// Group by platform, preserving fetch order within each group.
	var platforms []entity.Platform
	groups := make(map[entity.Platform][]*entity.Post)
	for i := range pool {
		post := &pool[i]
		if _, ok := groups[post.Platform]; !ok {
			platforms = append(platforms, post.Platform)
		}
		groups[post.Platform] = append(groups[post.Platform], post)
	}

	for _, platform := range platforms {
		s.planPlatform(ctx, plan, platform, groups[platform], rules, now, loc)
	}

	sort.SliceStable(plan.Posts, func(i, j int) bool {
		return plan.Posts[i].NewScheduledFor.Before(plan.Posts[j].NewScheduledFor)
	})

	return plan
}

// planPlatform resolves clip types for one platform's posts and plans
// each (platform, clip type) group against its effective calendar.
func (s *Service) planPlatform(ctx context.Context, plan *entity.RealignPlan, platform entity.Platform, posts []*entity.Post, rules []entity.PriorityRule, now time.Time, loc *time.Location) {
	var order []entity.ClipType
	byType := make(map[entity.ClipType][]*entity.Post)
	for _, post := range posts {
		ct := s.resolveClipType(ctx, plan, post)
		if _, ok := byType[ct]; !ok {
			order = append(order, ct)
		}
		byType[ct] = append(byType[ct], post)
	}

	sched, hasSched := s.cfg.Platforms[platform]

	for _, ct := range order {
		group := byType[ct]

		if !hasSched || len(sched.Effective(ct).Slots) == 0 {
			for _, post := range group {
				plan.ToCancel = append(plan.ToCancel, entity.Cancellation{
					Post:     post,
					Platform: platform,
					ClipType: ct,
					Reason:   entity.ReasonNoSlotsConfigured,
				})
			}
			continue
		}

		s.planGroup(plan, platform, ct, sched, group, rules, now, loc)
	}
}

// resolveClipType looks the post up in the published-item index.
// Lookup misses and lookup failures both count as unmatched and fall
// back to short: a planning pass must always produce a complete plan.
func (s *Service) resolveClipType(ctx context.Context, plan *entity.RealignPlan, post *entity.Post) entity.ClipType {
	ct, found, err := s.index.LookupClipType(ctx, post.ID)
	if err != nil {
		s.logger.Warn("clip type lookup failed", "post_id", post.ID, "error", err)
	}
	if err != nil || !found {
		plan.Unmatched++
		return entity.ClipTypeShort
	}
	return ct
}

// planGroup walks the slot sequence for one (platform, clip type) group
// and fills it from the rule queues and the fallback pool.
func (s *Service) planGroup(plan *entity.RealignPlan, platform entity.Platform, ct entity.ClipType, sched entity.PlatformSchedule, group []*entity.Post, rules []entity.PriorityRule, now time.Time, loc *time.Location) {
	queues := buildRuleQueues(rules, group, now.In(loc))

	// The fallback pool holds every post of the group, sorted ascending
	// by current schedule with unscheduled posts last. The stable sort
	// keeps fetch order on ties, which makes the whole pass
	// deterministic for a given random source.
	fallback := make([]*entity.Post, len(group))
	copy(fallback, group)
	sort.SliceStable(fallback, func(i, j int) bool {
		a, b := fallback[i].ScheduledFor, fallback[j].ScheduledFor
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	used := make(map[string]struct{}, len(group))
	fbIdx := 0
	nextFallback := func() *entity.Post {
		for fbIdx < len(fallback) {
			post := fallback[fbIdx]
			if _, taken := used[post.ID]; !taken {
				return post
			}
			fbIdx++
		}
		return nil
	}

	it := NewSlotIterator(sched, ct, now, s.horizonDays, loc)
	for {
		slot, ok := it.Next()
		if !ok {
			break
		}

		// Rules first, in configured order. A draw is only spent on a
		// rule that still has an unused candidate; a failed draw yields
		// to the next rule and finally to the fallback pool.
		var pick *entity.Post
		for _, q := range queues {
			if q.peek(used) == nil {
				continue
			}
			if s.rand() < q.rule.Saturation {
				pick = q.take()
				break
			}
		}
		if pick == nil {
			pick = nextFallback()
		}
		if pick == nil {
			exhausted := true
			for _, q := range queues {
				if q.peek(used) != nil {
					exhausted = false
					break
				}
			}
			if exhausted {
				// Nothing left to place; remaining capacity stays unused.
				break
			}
			continue
		}

		used[pick.ID] = struct{}{}

		if pick.ScheduledFor != nil && pick.ScheduledFor.Equal(slot) {
			// Already in the right place: the post is consumed and the
			// slot is spent, but nothing needs rewriting.
			plan.Skipped++
			continue
		}

		plan.Posts = append(plan.Posts, entity.PostAssignment{
			Post:            pick,
			Platform:        platform,
			ClipType:        ct,
			OldScheduledFor: pick.ScheduledFor,
			NewScheduledFor: slot,
		})
	}

	// Whatever survived the walk unplaced is overflow.
	for _, post := range fallback {
		if _, taken := used[post.ID]; taken {
			continue
		}
		plan.ToCancel = append(plan.ToCancel, entity.Cancellation{
			Post:     post,
			Platform: platform,
			ClipType: ct,
			Reason:   entity.ReasonNoSlotWithinHorizon,
		})
	}
}
