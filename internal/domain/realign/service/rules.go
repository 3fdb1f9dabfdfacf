package service

import (
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// ruleQueue pairs one priority rule with its FIFO of candidate posts.
// Queues are built independently per rule, so a post can sit in several
// queues at once; the planner's used set makes consumption mutually
// exclusive.
type ruleQueue struct {
	rule  entity.PriorityRule
	posts []*entity.Post
}

// buildRuleQueues partitions the pool across the ordered rule list.
// Each queue holds, in original pool order, every post whose content
// matches the rule's keywords. Date windows are evaluated once against
// today (the invocation date, not each candidate slot's date): an
// inactive rule keeps its position in the list but never receives
// candidates.
func buildRuleQueues(rules []entity.PriorityRule, pool []*entity.Post, today time.Time) []*ruleQueue {
	queues := make([]*ruleQueue, len(rules))
	for i, rule := range rules {
		q := &ruleQueue{rule: rule}
		if rule.ActiveOn(today) {
			for _, post := range pool {
				if rule.Matches(post.Content) {
					q.posts = append(q.posts, post)
				}
			}
		}
		queues[i] = q
	}
	return queues
}

// peek returns the first candidate not yet consumed elsewhere, dropping
// already-used entries permanently. Returns nil when the queue is
// exhausted.
func (q *ruleQueue) peek(used map[string]struct{}) *entity.Post {
	for len(q.posts) > 0 {
		if _, taken := used[q.posts[0].ID]; !taken {
			return q.posts[0]
		}
		q.posts = q.posts[1:]
	}
	return nil
}

// take removes and returns the head of the queue. Only valid after a
// successful peek.
func (q *ruleQueue) take() *entity.Post {
	post := q.posts[0]
	q.posts = q.posts[1:]
	return post
}
