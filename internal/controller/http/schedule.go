package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
	"github.com/vadim/clipcast/internal/httpx/response"
)

// ScheduleHandler exposes the loaded calendar for inspection
type ScheduleHandler struct {
	cfg   entity.ScheduleConfig
	rules []entity.PriorityRule
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(cfg entity.ScheduleConfig, rules []entity.PriorityRule) *ScheduleHandler {
	return &ScheduleHandler{cfg: cfg, rules: rules}
}

// RegisterRoutes registers schedule routes
func (h *ScheduleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/schedule", h.Get())
}

// ScheduleView is the calendar in its file-format vocabulary
type ScheduleView struct {
	Timezone  string                  `json:"timezone"`
	Platforms map[string]PlatformView `json:"platforms"`
	Rules     []RuleView              `json:"priority_rules,omitempty"`
}

// PlatformView represents one platform's calendar
type PlatformView struct {
	Slots      []SlotView              `json:"slots"`
	AvoidDays  []string                `json:"avoid_days,omitempty"`
	ByClipType map[string]PlatformView `json:"by_clip_type,omitempty"`
}

// SlotView represents one recurring slot
type SlotView struct {
	Days  []string `json:"days"`
	Time  string   `json:"time"`
	Label string   `json:"label"`
}

// RuleView represents one priority rule
type RuleView struct {
	Keywords   []string `json:"keywords"`
	Saturation float64  `json:"saturation"`
	From       string   `json:"from,omitempty"`
	To         string   `json:"to,omitempty"`
}

// Get handles GET /schedule
func (h *ScheduleHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := ScheduleView{
			Timezone:  h.cfg.Location.String(),
			Platforms: make(map[string]PlatformView, len(h.cfg.Platforms)),
		}
		for name, sched := range h.cfg.Platforms {
			view.Platforms[string(name)] = platformView(sched)
		}
		for _, rule := range h.rules {
			view.Rules = append(view.Rules, ruleView(rule))
		}

		response.OK(w, view)
	}
}

var dayNames = map[time.Weekday]string{
	time.Sunday:    "sun",
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
}

func platformView(sched entity.PlatformSchedule) PlatformView {
	pv := PlatformView{}
	for _, slot := range sched.Slots {
		sv := SlotView{
			Time:  clockString(slot.Hour, slot.Minute),
			Label: slot.Label,
		}
		for _, d := range slot.Days {
			sv.Days = append(sv.Days, dayNames[d])
		}
		pv.Slots = append(pv.Slots, sv)
	}
	for _, d := range sched.AvoidDays {
		pv.AvoidDays = append(pv.AvoidDays, dayNames[d])
	}
	if len(sched.ByClipType) > 0 {
		pv.ByClipType = make(map[string]PlatformView, len(sched.ByClipType))
		for ct, override := range sched.ByClipType {
			pv.ByClipType[string(ct)] = platformView(override)
		}
	}
	return pv
}

func ruleView(rule entity.PriorityRule) RuleView {
	rv := RuleView{Keywords: rule.Keywords, Saturation: rule.Saturation}
	if rule.From != nil {
		rv.From = rule.From.Format("2006-01-02")
	}
	if rule.To != nil {
		rv.To = rule.To.Format("2006-01-02")
	}
	return rv
}

func clockString(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
