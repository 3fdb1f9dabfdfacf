package postiz

import (
	"context"
	"net/http"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// Store adapts the Postiz client to the domain's post store interfaces
// (policy.PostSource for listing, service.PostStore for writes).
type Store struct {
	client *Client
}

// NewStore creates a store adapter around a Postiz client
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// ListPosts retrieves all posts in the given status
func (s *Store) ListPosts(ctx context.Context, status entity.PostStatus) ([]entity.Post, error) {
	data, err := s.client.ListPosts(ctx, string(status))
	if err != nil {
		return nil, err
	}

	posts := make([]entity.Post, len(data))
	for i, d := range data {
		posts[i] = toPost(d)
	}
	return posts, nil
}

// SchedulePost reschedules a post in the remote store
func (s *Store) SchedulePost(ctx context.Context, id string, scheduledFor time.Time) (*entity.Post, error) {
	data, err := s.client.SchedulePost(ctx, id, scheduledFor)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	post := toPost(*data)
	return &post, nil
}

// UpdatePostStatus updates a post's status in the remote store
func (s *Store) UpdatePostStatus(ctx context.Context, id string, status entity.PostStatus) (*entity.Post, error) {
	state := string(status)
	data, err := s.client.UpdatePost(ctx, id, UpdatePostInput{State: &state})
	if err != nil {
		return nil, wrapNotFound(err)
	}

	post := toPost(*data)
	return &post, nil
}

func toPost(d PostData) entity.Post {
	return entity.Post{
		ID:           d.ID,
		Content:      d.Content,
		Platform:     entity.Platform(d.Platform),
		Status:       entity.PostStatus(d.State),
		ScheduledFor: d.PublishDate,
	}
}

func wrapNotFound(err error) error {
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
		return entity.ErrPostNotFound
	}
	return err
}
