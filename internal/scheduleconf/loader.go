// Package scheduleconf loads and validates the recurring weekly
// calendar file. Everything downstream (the slot generator in
// particular) trusts the result: day names, slot times and rule windows
// are rejected here or not at all.
package scheduleconf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// File-level shapes. Day names are the seven three-letter lowercase
// abbreviations, times are 24h "HH:MM", rule windows are "YYYY-MM-DD".
type fileConfig struct {
	Timezone      string                  `json:"timezone"`
	Platforms     map[string]filePlatform `json:"platforms"`
	PriorityRules []fileRule              `json:"priorityRules"`
}

type filePlatform struct {
	Slots      []fileSlot              `json:"slots"`
	AvoidDays  []string                `json:"avoidDays"`
	ByClipType map[string]filePlatform `json:"byClipType"`
}

type fileSlot struct {
	Days  []string `json:"days"`
	Time  string   `json:"time"`
	Label string   `json:"label"`
}

type fileRule struct {
	Keywords   []string `json:"keywords"`
	Saturation float64  `json:"saturation"`
	From       string   `json:"from"`
	To         string   `json:"to"`
}

// Load reads, validates and converts the calendar config file
func Load(path string) (entity.ScheduleConfig, []entity.PriorityRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.ScheduleConfig{}, nil, fmt.Errorf("reading schedule config: %w", err)
	}
	return Parse(raw)
}

// Parse validates and converts raw calendar config JSON
func Parse(raw []byte) (entity.ScheduleConfig, []entity.PriorityRule, error) {
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return entity.ScheduleConfig{}, nil, fmt.Errorf("parsing schedule config: %w", err)
	}

	if fc.Timezone == "" {
		return entity.ScheduleConfig{}, nil, fmt.Errorf("schedule config: timezone is required")
	}
	loc, err := time.LoadLocation(fc.Timezone)
	if err != nil {
		return entity.ScheduleConfig{}, nil, fmt.Errorf("schedule config: invalid timezone %q: %w", fc.Timezone, err)
	}

	cfg := entity.ScheduleConfig{
		Location:  loc,
		Platforms: make(map[entity.Platform]entity.PlatformSchedule, len(fc.Platforms)),
	}

	for name, fp := range fc.Platforms {
		sched, err := convertPlatform(fp, true)
		if err != nil {
			return entity.ScheduleConfig{}, nil, fmt.Errorf("schedule config: platform %q: %w", name, err)
		}
		cfg.Platforms[entity.Platform(name)] = sched
	}

	rules, err := convertRules(fc.PriorityRules, loc)
	if err != nil {
		return entity.ScheduleConfig{}, nil, fmt.Errorf("schedule config: %w", err)
	}

	return cfg, rules, nil
}

func convertPlatform(fp filePlatform, allowOverrides bool) (entity.PlatformSchedule, error) {
	var sched entity.PlatformSchedule

	for i, fs := range fp.Slots {
		slot, err := convertSlot(fs)
		if err != nil {
			return sched, fmt.Errorf("slot %d: %w", i, err)
		}
		sched.Slots = append(sched.Slots, slot)
	}

	for _, name := range fp.AvoidDays {
		day, ok := weekdays[name]
		if !ok {
			return sched, fmt.Errorf("invalid avoid day %q", name)
		}
		sched.AvoidDays = append(sched.AvoidDays, day)
	}

	if len(fp.ByClipType) > 0 {
		if !allowOverrides {
			return sched, fmt.Errorf("nested byClipType override is not supported")
		}
		sched.ByClipType = make(map[entity.ClipType]entity.PlatformSchedule, len(fp.ByClipType))
		for ct, override := range fp.ByClipType {
			converted, err := convertPlatform(override, false)
			if err != nil {
				return sched, fmt.Errorf("clip type %q: %w", ct, err)
			}
			sched.ByClipType[entity.ClipType(ct)] = converted
		}
	}

	return sched, nil
}

func convertSlot(fs fileSlot) (entity.Slot, error) {
	var slot entity.Slot

	if len(fs.Days) == 0 {
		return slot, fmt.Errorf("days must not be empty")
	}
	for _, name := range fs.Days {
		day, ok := weekdays[name]
		if !ok {
			return slot, fmt.Errorf("invalid day %q", name)
		}
		slot.Days = append(slot.Days, day)
	}

	clock, err := time.Parse("15:04", fs.Time)
	if err != nil {
		return slot, fmt.Errorf("invalid time %q, use HH:MM", fs.Time)
	}
	slot.Hour = clock.Hour()
	slot.Minute = clock.Minute()

	if fs.Label == "" {
		return slot, fmt.Errorf("label must not be empty")
	}
	slot.Label = fs.Label

	return slot, nil
}

func convertRules(frs []fileRule, loc *time.Location) ([]entity.PriorityRule, error) {
	var rules []entity.PriorityRule

	for i, fr := range frs {
		if len(fr.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d: keywords must not be empty", i)
		}
		if fr.Saturation < 0 || fr.Saturation > 1 {
			return nil, fmt.Errorf("rule %d: saturation %v out of range [0,1]", i, fr.Saturation)
		}

		rule := entity.PriorityRule{Keywords: fr.Keywords, Saturation: fr.Saturation}

		if fr.From != "" {
			from, err := time.ParseInLocation("2006-01-02", fr.From, loc)
			if err != nil {
				return nil, fmt.Errorf("rule %d: invalid from date %q: %w", i, fr.From, err)
			}
			rule.From = &from
		}
		if fr.To != "" {
			to, err := time.ParseInLocation("2006-01-02", fr.To, loc)
			if err != nil {
				return nil, fmt.Errorf("rule %d: invalid to date %q: %w", i, fr.To, err)
			}
			rule.To = &to
		}
		if rule.From != nil && rule.To != nil && rule.To.Before(*rule.From) {
			return nil, fmt.Errorf("rule %d: to date precedes from date", i)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}
