package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
	"github.com/vadim/clipcast/internal/domain/realign/service"
)

type stubSource struct {
	posts   map[entity.PostStatus][]entity.Post
	listed  []entity.PostStatus
	err     error
	failFor entity.PostStatus
}

func (s *stubSource) ListPosts(_ context.Context, status entity.PostStatus) ([]entity.Post, error) {
	s.listed = append(s.listed, status)
	if s.err != nil && status == s.failFor {
		return nil, s.err
	}
	return s.posts[status], nil
}

type stubStore struct {
	scheduleCalls []string
	statusCalls   []string
}

func (s *stubStore) SchedulePost(_ context.Context, id string, scheduledFor time.Time) (*entity.Post, error) {
	s.scheduleCalls = append(s.scheduleCalls, id)
	return &entity.Post{ID: id, Status: entity.PostStatusScheduled, ScheduledFor: &scheduledFor}, nil
}

func (s *stubStore) UpdatePostStatus(_ context.Context, id string, status entity.PostStatus) (*entity.Post, error) {
	s.statusCalls = append(s.statusCalls, id)
	return &entity.Post{ID: id, Status: status}, nil
}

type emptyIndex struct{}

func (emptyIndex) LookupClipType(context.Context, string) (entity.ClipType, bool, error) {
	return "", false, nil
}

type stubArchive struct {
	runID string
	plan  *entity.RealignPlan
	err   error
}

func (a *stubArchive) ArchivePlan(_ context.Context, runID string, plan *entity.RealignPlan) (string, error) {
	a.runID = runID
	a.plan = plan
	if a.err != nil {
		return "", a.err
	}
	return "plans/2026/01/05/" + runID + ".json", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSchedule() entity.ScheduleConfig {
	return entity.ScheduleConfig{
		Location: time.UTC,
		Platforms: map[entity.Platform]entity.PlatformSchedule{
			"x": {Slots: []entity.Slot{{
				Days:  []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
				Hour:  10,
				Label: "daily",
			}}},
		},
	}
}

func newTestPolicy(source PostSource, store service.PostStore, archive PlanArchive) *Policy {
	svc := service.New(testSchedule(), emptyIndex{}, store, func() float64 { return 0 }, 0, testLogger())
	return New(svc, source, archive, nil, testLogger())
}

func scheduledPost(id string) entity.Post {
	return entity.Post{ID: id, Content: "content " + id, Platform: "x", Status: entity.PostStatusScheduled}
}

func TestRealignUsesDefaultStatuses(t *testing.T) {
	source := &stubSource{posts: map[entity.PostStatus][]entity.Post{
		entity.PostStatusScheduled: {scheduledPost("p1")},
		entity.PostStatusDraft:     {scheduledPost("p2")},
	}}
	store := &stubStore{}
	p := newTestPolicy(source, store, nil)

	out, err := p.Realign(context.Background(), RealignInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []entity.PostStatus{entity.PostStatusScheduled, entity.PostStatusDraft}
	if len(source.listed) != 2 || source.listed[0] != want[0] || source.listed[1] != want[1] {
		t.Errorf("expected list calls %v, got %v", want, source.listed)
	}
	if out.Plan.TotalFetched != 2 {
		t.Errorf("expected pool of 2, got %d", out.Plan.TotalFetched)
	}
	if out.RunID == "" {
		t.Error("expected a run id")
	}
	if out.Result == nil || out.Result.Updated != 2 {
		t.Errorf("expected 2 updates, got %+v", out.Result)
	}
}

func TestRealignDryRunNeverWrites(t *testing.T) {
	source := &stubSource{posts: map[entity.PostStatus][]entity.Post{
		entity.PostStatusScheduled: {scheduledPost("p1"), scheduledPost("p2")},
	}}
	store := &stubStore{}
	archive := &stubArchive{}
	p := newTestPolicy(source, store, archive)

	out, err := p.Realign(context.Background(), RealignInput{
		Statuses: []entity.PostStatus{entity.PostStatusScheduled},
		DryRun:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Result != nil {
		t.Errorf("dry run must not carry an execution result, got %+v", out.Result)
	}
	if out.ArchiveKey != "" {
		t.Errorf("dry run must not archive, got key %q", out.ArchiveKey)
	}
	if len(store.scheduleCalls) != 0 || len(store.statusCalls) != 0 {
		t.Errorf("dry run must not write, got %v / %v", store.scheduleCalls, store.statusCalls)
	}
	if archive.plan != nil {
		t.Error("dry run must not reach the archive")
	}
	if len(out.Plan.Posts) != 2 {
		t.Errorf("expected the plan itself to be built, got %d assignments", len(out.Plan.Posts))
	}
}

func TestRealignArchivesExecutedPlans(t *testing.T) {
	source := &stubSource{posts: map[entity.PostStatus][]entity.Post{
		entity.PostStatusScheduled: {scheduledPost("p1")},
	}}
	archive := &stubArchive{}
	p := newTestPolicy(source, &stubStore{}, archive)

	out, err := p.Realign(context.Background(), RealignInput{
		Statuses: []entity.PostStatus{entity.PostStatusScheduled},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if archive.runID != out.RunID {
		t.Errorf("expected plan archived under run id %q, got %q", out.RunID, archive.runID)
	}
	if out.ArchiveKey == "" {
		t.Error("expected the archive key on the output")
	}
}

func TestRealignArchiveFailureIsBestEffort(t *testing.T) {
	source := &stubSource{posts: map[entity.PostStatus][]entity.Post{
		entity.PostStatusScheduled: {scheduledPost("p1")},
	}}
	archive := &stubArchive{err: errors.New("s3: bucket gone")}
	p := newTestPolicy(source, &stubStore{}, archive)

	out, err := p.Realign(context.Background(), RealignInput{
		Statuses: []entity.PostStatus{entity.PostStatusScheduled},
	})
	if err != nil {
		t.Fatalf("archive failures must not fail the run: %v", err)
	}
	if out.ArchiveKey != "" {
		t.Errorf("expected empty archive key after failure, got %q", out.ArchiveKey)
	}
	if out.Result == nil || out.Result.Updated != 1 {
		t.Errorf("expected the execution result to survive, got %+v", out.Result)
	}
}

func TestRealignPropagatesListErrors(t *testing.T) {
	source := &stubSource{
		posts:   map[entity.PostStatus][]entity.Post{entity.PostStatusScheduled: {scheduledPost("p1")}},
		failFor: entity.PostStatusDraft,
		err:     errors.New("postiz: 502"),
	}
	store := &stubStore{}
	p := newTestPolicy(source, store, nil)

	_, err := p.Realign(context.Background(), RealignInput{})
	if err == nil {
		t.Fatal("expected the list error to propagate")
	}
	if !errors.Is(err, source.err) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
	if len(store.scheduleCalls) != 0 {
		t.Errorf("no writes may happen after a failed list, got %v", store.scheduleCalls)
	}
}

func TestPreviewPlanIsAlwaysDry(t *testing.T) {
	source := &stubSource{posts: map[entity.PostStatus][]entity.Post{
		entity.PostStatusDraft: {scheduledPost("p1")},
	}}
	store := &stubStore{}
	p := newTestPolicy(source, store, nil)

	out, err := p.PreviewPlan(context.Background(), []entity.PostStatus{entity.PostStatusDraft})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result != nil || len(store.scheduleCalls) != 0 {
		t.Error("preview must not execute the plan")
	}
}
