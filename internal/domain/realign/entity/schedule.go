package entity

import "time"

// Slot is one recurring weekly publication window: a set of weekdays and
// a time of day. Labels are for diagnostics only.
type Slot struct {
	Days   []time.Weekday `json:"days"`
	Hour   int            `json:"hour"`
	Minute int            `json:"minute"`
	Label  string         `json:"label"`
}

// HasDay reports whether the slot fires on the given weekday
func (s Slot) HasDay(d time.Weekday) bool {
	for _, day := range s.Days {
		if day == d {
			return true
		}
	}
	return false
}

// PlatformSchedule is the recurring weekly availability calendar for one
// platform. A clip-type override in ByClipType replaces the default slot
// list and avoid-days entirely for that clip type.
type PlatformSchedule struct {
	Slots      []Slot                        `json:"slots"`
	AvoidDays  []time.Weekday                `json:"avoid_days,omitempty"`
	ByClipType map[ClipType]PlatformSchedule `json:"by_clip_type,omitempty"`
}

// Effective resolves the schedule to use for a clip type: the override
// when one exists, the platform default otherwise.
func (s PlatformSchedule) Effective(ct ClipType) PlatformSchedule {
	if override, ok := s.ByClipType[ct]; ok {
		return override
	}
	return PlatformSchedule{Slots: s.Slots, AvoidDays: s.AvoidDays}
}

// ScheduleConfig is the pre-validated recurring calendar for all
// platforms. It is immutable for the duration of a planning pass; the
// loader in internal/scheduleconf is the only place that builds one
// from raw input.
type ScheduleConfig struct {
	Location  *time.Location
	Platforms map[Platform]PlatformSchedule
}
