package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/clipcast/internal/domain/library/entity"
)

// ItemPostgres implements PublishedItemRepository for PostgreSQL
type ItemPostgres struct {
	pool *pgxpool.Pool
}

// NewItemPostgres creates a new PostgreSQL published-item repository
func NewItemPostgres(pool *pgxpool.Pool) *ItemPostgres {
	return &ItemPostgres{pool: pool}
}

// Create inserts a new published item
func (r *ItemPostgres) Create(ctx context.Context, item *entity.PublishedItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO published_items (id, post_id, source_clip, clip_type, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.PostID,
		item.SourceClip,
		item.ClipType,
		item.PublishedAt,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting published item: %w", err)
	}

	return nil
}

// GetByPostID retrieves the published item for a post
func (r *ItemPostgres) GetByPostID(ctx context.Context, postID string) (*entity.PublishedItem, error) {
	query := `
		SELECT id, post_id, source_clip, clip_type, published_at, created_at
		FROM published_items
		WHERE post_id = $1
	`

	row := r.pool.QueryRow(ctx, query, postID)

	var item entity.PublishedItem
	var sourceClip *string
	var publishedAt *time.Time

	err := row.Scan(
		&item.ID,
		&item.PostID,
		&sourceClip,
		&item.ClipType,
		&publishedAt,
		&item.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning published item: %w", err)
	}

	if sourceClip != nil {
		item.SourceClip = *sourceClip
	}
	if publishedAt != nil {
		item.PublishedAt = *publishedAt
	}

	return &item, nil
}

// LookupClipType resolves a post's clip type from the index
func (r *ItemPostgres) LookupClipType(ctx context.Context, postID string) (string, bool, error) {
	query := `SELECT clip_type FROM published_items WHERE post_id = $1`

	var clipType string
	err := r.pool.QueryRow(ctx, query, postID).Scan(&clipType)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up clip type: %w", err)
	}

	return clipType, true, nil
}

// ListRecent retrieves the most recently published items
func (r *ItemPostgres) ListRecent(ctx context.Context, limit int) ([]entity.PublishedItem, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, post_id, source_clip, clip_type, published_at, created_at
		FROM published_items
		ORDER BY published_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing published items: %w", err)
	}
	defer rows.Close()

	var items []entity.PublishedItem
	for rows.Next() {
		var item entity.PublishedItem
		var sourceClip *string
		var publishedAt *time.Time

		if err := rows.Scan(
			&item.ID,
			&item.PostID,
			&sourceClip,
			&item.ClipType,
			&publishedAt,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning published item: %w", err)
		}

		if sourceClip != nil {
			item.SourceClip = *sourceClip
		}
		if publishedAt != nil {
			item.PublishedAt = *publishedAt
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
