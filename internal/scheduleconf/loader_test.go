package scheduleconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

const validConfig = `{
	"timezone": "Europe/Berlin",
	"platforms": {
		"x": {
			"slots": [
				{"days": ["mon", "wed", "fri"], "time": "08:30", "label": "morning"},
				{"days": ["tue"], "time": "19:00", "label": "evening"}
			],
			"avoidDays": ["sat", "sun"],
			"byClipType": {
				"video": {
					"slots": [{"days": ["thu"], "time": "18:00", "label": "video night"}]
				}
			}
		}
	},
	"priorityRules": [
		{"keywords": ["devops", "sre"], "saturation": 0.7, "from": "2026-01-01", "to": "2026-03-31"},
		{"keywords": ["launch"], "saturation": 1}
	]
}`

func TestParseValidConfig(t *testing.T) {
	cfg, rules, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Location == nil || cfg.Location.String() != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin location, got %v", cfg.Location)
	}

	sched, ok := cfg.Platforms["x"]
	if !ok {
		t.Fatal("expected platform x")
	}
	if len(sched.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(sched.Slots))
	}

	morning := sched.Slots[0]
	if morning.Hour != 8 || morning.Minute != 30 || morning.Label != "morning" {
		t.Errorf("unexpected morning slot: %+v", morning)
	}
	wantDays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(morning.Days) != len(wantDays) {
		t.Fatalf("expected %d days, got %d", len(wantDays), len(morning.Days))
	}
	for i, d := range wantDays {
		if morning.Days[i] != d {
			t.Errorf("day %d: expected %v, got %v", i, d, morning.Days[i])
		}
	}

	if len(sched.AvoidDays) != 2 || sched.AvoidDays[0] != time.Saturday || sched.AvoidDays[1] != time.Sunday {
		t.Errorf("unexpected avoid days: %v", sched.AvoidDays)
	}

	video, ok := sched.ByClipType[entity.ClipTypeVideo]
	if !ok {
		t.Fatal("expected a video override")
	}
	if len(video.Slots) != 1 || video.Slots[0].Hour != 18 {
		t.Errorf("unexpected video override: %+v", video)
	}

	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	first := rules[0]
	if first.Saturation != 0.7 || len(first.Keywords) != 2 {
		t.Errorf("unexpected first rule: %+v", first)
	}
	if first.From == nil || first.To == nil {
		t.Fatal("expected a bounded window on the first rule")
	}
	// Dates are midnight in the config's own timezone.
	if first.From.Location().String() != "Europe/Berlin" {
		t.Errorf("expected window dates in config timezone, got %v", first.From.Location())
	}
	if second := rules[1]; second.From != nil || second.To != nil {
		t.Errorf("expected an unbounded second rule, got %+v", second)
	}
}

func TestParseRejectsInvalidConfigs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad json", `{"timezone": "UTC",`},
		{"missing timezone", `{"platforms": {}}`},
		{"bad timezone", `{"timezone": "Mars/Olympus", "platforms": {}}`},
		{"bad day name", `{"timezone": "UTC", "platforms": {"x": {"slots": [
			{"days": ["monday"], "time": "08:00", "label": "a"}]}}}`},
		{"empty days", `{"timezone": "UTC", "platforms": {"x": {"slots": [
			{"days": [], "time": "08:00", "label": "a"}]}}}`},
		{"bad time", `{"timezone": "UTC", "platforms": {"x": {"slots": [
			{"days": ["mon"], "time": "8am", "label": "a"}]}}}`},
		{"empty label", `{"timezone": "UTC", "platforms": {"x": {"slots": [
			{"days": ["mon"], "time": "08:00", "label": ""}]}}}`},
		{"bad avoid day", `{"timezone": "UTC", "platforms": {"x": {"avoidDays": ["weekend"]}}}`},
		{"nested override", `{"timezone": "UTC", "platforms": {"x": {"byClipType": {
			"video": {"byClipType": {"short": {}}}}}}}`},
		{"empty keywords", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": [], "saturation": 0.5}]}`},
		{"saturation above one", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": ["a"], "saturation": 1.5}]}`},
		{"negative saturation", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": ["a"], "saturation": -0.1}]}`},
		{"bad from date", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": ["a"], "saturation": 0.5, "from": "01.02.2026"}]}`},
		{"bad to date", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": ["a"], "saturation": 0.5, "to": "2026-13-40"}]}`},
		{"window reversed", `{"timezone": "UTC", "platforms": {},
			"priorityRules": [{"keywords": ["a"], "saturation": 0.5, "from": "2026-03-01", "to": "2026-02-01"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Parse([]byte(tc.raw)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseAllowsSingleDayWindow(t *testing.T) {
	raw := `{"timezone": "UTC", "platforms": {},
		"priorityRules": [{"keywords": ["a"], "saturation": 0.5, "from": "2026-02-01", "to": "2026-02-01"}]}`
	if _, _, err := Parse([]byte(raw)); err != nil {
		t.Fatalf("from == to must be valid: %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := os.WriteFile(path, []byte(validConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, rules, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Platforms) != 1 || len(rules) != 2 {
		t.Errorf("unexpected load result: %d platforms, %d rules", len(cfg.Platforms), len(rules))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
