package entity

import "errors"

// Domain errors for realignment
var (
	// ErrMalformedPlan indicates a plan that violates the at-most-once
	// invariant; it signals a defect in the plan builder, not a runtime
	// condition.
	ErrMalformedPlan = errors.New("malformed realign plan")

	// ErrPostNotFound is returned by post store adapters when the remote
	// store has no post with the requested id
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidStatus is returned when a caller supplies an unknown post
	// status
	ErrInvalidStatus = errors.New("invalid post status")
)

// ParsePostStatus validates and converts a raw status string
func ParsePostStatus(s string) (PostStatus, error) {
	switch PostStatus(s) {
	case PostStatusScheduled, PostStatusDraft, PostStatusCancelled, PostStatusFailed:
		return PostStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
