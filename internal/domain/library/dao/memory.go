package dao

import (
	"context"
	"sort"
	"sync"

	"github.com/vadim/clipcast/internal/domain/library/entity"
)

// ItemMemory implements PublishedItemRepository in memory. Used when the
// service runs without a database; every lookup against an empty index
// is a miss, so the planner falls back to the short calendar.
type ItemMemory struct {
	mu      sync.RWMutex
	byPost  map[string]entity.PublishedItem
	ordered []string
}

// NewItemMemory creates an empty in-memory published-item repository
func NewItemMemory() *ItemMemory {
	return &ItemMemory{byPost: make(map[string]entity.PublishedItem)}
}

// Create inserts a new published item
func (r *ItemMemory) Create(_ context.Context, item *entity.PublishedItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPost[item.PostID]; !exists {
		r.ordered = append(r.ordered, item.PostID)
	}
	r.byPost[item.PostID] = *item
	return nil
}

// GetByPostID retrieves the published item for a post
func (r *ItemMemory) GetByPostID(_ context.Context, postID string) (*entity.PublishedItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byPost[postID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// LookupClipType resolves a post's clip type from the index
func (r *ItemMemory) LookupClipType(_ context.Context, postID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byPost[postID]
	if !ok {
		return "", false, nil
	}
	return item.ClipType, true, nil
}

// ListRecent retrieves the most recently published items
func (r *ItemMemory) ListRecent(_ context.Context, limit int) ([]entity.PublishedItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entity.PublishedItem, 0, len(r.byPost))
	for _, postID := range r.ordered {
		items = append(items, r.byPost[postID])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
