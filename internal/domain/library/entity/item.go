package entity

import (
	"errors"
	"time"
)

// Domain errors for the published-item library
var (
	ErrItemNotFound  = errors.New("published item not found")
	ErrEmptyPostID   = errors.New("post ID is required")
	ErrEmptyClipType = errors.New("clip type is required")
)

// PublishedItem links a post in the remote store back to the pipeline
// clip that produced it. The realignment planner uses this mapping to
// pick the right calendar for a post.
type PublishedItem struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	SourceClip  string    `json:"source_clip"`
	ClipType    string    `json:"clip_type"` // short, medium, video
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate validates the published item before persisting
func (i *PublishedItem) Validate() error {
	if i.PostID == "" {
		return ErrEmptyPostID
	}
	if i.ClipType == "" {
		return ErrEmptyClipType
	}
	return nil
}
