package dao

import (
	"context"

	"github.com/vadim/clipcast/internal/domain/library/entity"
)

// PublishedItemRepository defines the interface for published-item data
// access
type PublishedItemRepository interface {
	// Create inserts a new published item
	Create(ctx context.Context, item *entity.PublishedItem) error

	// GetByPostID retrieves the published item for a post, nil when absent
	GetByPostID(ctx context.Context, postID string) (*entity.PublishedItem, error)

	// LookupClipType resolves a post's clip type. The boolean reports
	// whether the index holds a mapping for the post at all.
	LookupClipType(ctx context.Context, postID string) (string, bool, error)

	// ListRecent retrieves the most recently published items
	ListRecent(ctx context.Context, limit int) ([]entity.PublishedItem, error)
}
