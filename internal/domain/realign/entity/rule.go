package entity

import (
	"strings"
	"time"
)

// PriorityRule routes posts matching any of its keywords into the
// earliest available slots. Saturation is the probability that the rule
// captures a slot when it still has candidates; earlier rules in the
// configured list take precedence over later ones.
type PriorityRule struct {
	Keywords   []string   `json:"keywords"`
	Saturation float64    `json:"saturation"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

// Matches reports whether the post content matches at least one keyword
// (case-insensitive substring). Empty content never matches.
func (r PriorityRule) Matches(content string) bool {
	if content == "" {
		return false
	}
	lowered := strings.ToLower(content)
	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ActiveOn reports whether the rule is date-active on the given day.
// Bounds are inclusive calendar dates; an absent bound is open.
func (r PriorityRule) ActiveOn(day time.Time) bool {
	d := dateOnly(day)
	if r.From != nil && d.Before(dateOnly(*r.From)) {
		return false
	}
	if r.To != nil && d.After(dateOnly(*r.To)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
