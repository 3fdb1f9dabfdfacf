package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

var allDays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// monday is the fixed "now" for planner tests: Monday 2026-01-05 00:00 UTC
var monday = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dailySlot(hour, minute int, label string) entity.Slot {
	return entity.Slot{Days: allDays, Hour: hour, Minute: minute, Label: label}
}

func configFor(platform string, sched entity.PlatformSchedule) entity.ScheduleConfig {
	return entity.ScheduleConfig{
		Location: time.UTC,
		Platforms: map[entity.Platform]entity.PlatformSchedule{
			entity.Platform(platform): sched,
		},
	}
}

func makePost(id, content, platform string, scheduledFor *time.Time) entity.Post {
	return entity.Post{
		ID:           id,
		Content:      content,
		Platform:     entity.Platform(platform),
		Status:       entity.PostStatusScheduled,
		ScheduledFor: scheduledFor,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// fakeIndex resolves clip types from a fixed map
type fakeIndex struct {
	types map[string]entity.ClipType
	err   error
}

func (f *fakeIndex) LookupClipType(_ context.Context, postID string) (entity.ClipType, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	ct, ok := f.types[postID]
	return ct, ok, nil
}

// fakeStore records store calls and fails on demand
type fakeStore struct {
	scheduleCalls []string
	statusCalls   []string
	failSchedule  map[string]error
	failStatus    map[string]error
}

func (f *fakeStore) SchedulePost(_ context.Context, id string, scheduledFor time.Time) (*entity.Post, error) {
	f.scheduleCalls = append(f.scheduleCalls, id)
	if err := f.failSchedule[id]; err != nil {
		return nil, err
	}
	return &entity.Post{ID: id, Status: entity.PostStatusScheduled, ScheduledFor: &scheduledFor}, nil
}

func (f *fakeStore) UpdatePostStatus(_ context.Context, id string, status entity.PostStatus) (*entity.Post, error) {
	f.statusCalls = append(f.statusCalls, id)
	if err := f.failStatus[id]; err != nil {
		return nil, err
	}
	return &entity.Post{ID: id, Status: status}, nil
}

// alwaysRand returns the same draw forever
func alwaysRand(v float64) RandSource {
	return func() float64 { return v }
}

// scriptedRand replays a fixed sequence of draws and fails the test on
// any extra draw
func scriptedRand(t *testing.T, vals ...float64) RandSource {
	t.Helper()
	i := 0
	return func() float64 {
		if i >= len(vals) {
			t.Fatalf("unexpected random draw %d, scripted only %d", i+1, len(vals))
		}
		v := vals[i]
		i++
		return v
	}
}

func newTestService(cfg entity.ScheduleConfig, index ClipTypeIndex, store PostStore, rnd RandSource, horizonDays int) *Service {
	if index == nil {
		index = &fakeIndex{}
	}
	if store == nil {
		store = &fakeStore{}
	}
	if rnd == nil {
		rnd = alwaysRand(0)
	}
	return New(cfg, index, store, rnd, horizonDays, testLogger())
}

func assignmentIDs(plan *entity.RealignPlan) []string {
	ids := make([]string, len(plan.Posts))
	for i, a := range plan.Posts {
		ids[i] = a.Post.ID
	}
	return ids
}

func cancelledIDs(plan *entity.RealignPlan) []string {
	ids := make([]string, len(plan.ToCancel))
	for i, c := range plan.ToCancel {
		ids[i] = c.Post.ID
	}
	return ids
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
