package entity

import "time"

// Platform identifies a social platform in the post store ("youtube",
// "instagram", "x", ...). The realignment pass treats each platform
// independently.
type Platform string

// PostStatus represents the lifecycle state of a post in the remote store
type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusDraft     PostStatus = "draft"
	PostStatusCancelled PostStatus = "cancelled"
	PostStatusFailed    PostStatus = "failed"
)

// ClipType classifies the pipeline clip a post was generated from.
// It is not stored on the post itself; the published-item index resolves
// it, and unresolved posts default to ClipTypeShort.
type ClipType string

const (
	ClipTypeShort  ClipType = "short"
	ClipTypeMedium ClipType = "medium"
	ClipTypeVideo  ClipType = "video"
)

// Post is a social post owned by the remote store. The realignment core
// references posts, it never copies or mutates them.
type Post struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	Platform     Platform   `json:"platform"`
	Status       PostStatus `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}
