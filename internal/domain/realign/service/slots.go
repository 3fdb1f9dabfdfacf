package service

import (
	"sort"
	"time"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
)

// DefaultHorizonDays bounds the slot search. Two years of candidate
// slots is far more capacity than any realistic pool needs; posts that
// do not fit inside the horizon are treated as overflow.
const DefaultHorizonDays = 730

// SlotIterator walks a platform's recurring weekly calendar forward from
// a starting instant and yields candidate publication slots in strictly
// increasing order. It is a pure function of its constructor inputs:
// re-creating it with the same arguments replays the same sequence.
type SlotIterator struct {
	slots []entity.Slot
	avoid map[time.Weekday]bool
	after time.Time
	day   time.Time
	left  int
	queue []time.Time
}

// NewSlotIterator resolves the effective schedule for the clip type and
// prepares a walk of at most horizonDays calendar days starting at from.
// An effective schedule with no slots yields an empty sequence. Day
// names and slot times are trusted as-is; the config loader rejects
// anything malformed before it gets here.
func NewSlotIterator(sched entity.PlatformSchedule, clipType entity.ClipType, from time.Time, horizonDays int, loc *time.Location) *SlotIterator {
	eff := sched.Effective(clipType)
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	it := &SlotIterator{
		slots: eff.Slots,
		avoid: make(map[time.Weekday]bool, len(eff.AvoidDays)),
		after: from,
		left:  horizonDays,
	}
	for _, d := range eff.AvoidDays {
		it.avoid[d] = true
	}

	y, m, d := from.In(loc).Date()
	it.day = time.Date(y, m, d, 0, 0, 0, 0, loc)

	if len(it.slots) == 0 {
		it.left = 0
	}
	return it
}

// Next returns the next candidate slot, or false when the horizon is
// exhausted.
func (it *SlotIterator) Next() (time.Time, bool) {
	for len(it.queue) == 0 {
		if it.left <= 0 {
			return time.Time{}, false
		}
		it.fillDay()
		it.day = it.day.AddDate(0, 0, 1)
		it.left--
	}

	next := it.queue[0]
	it.queue = it.queue[1:]
	return next, true
}

// fillDay collects this day's slot instants, sorted by time of day and
// deduplicated so the overall sequence stays strictly increasing.
func (it *SlotIterator) fillDay() {
	weekday := it.day.Weekday()
	if it.avoid[weekday] {
		return
	}

	var times []time.Time
	for _, slot := range it.slots {
		if !slot.HasDay(weekday) {
			continue
		}
		t := time.Date(it.day.Year(), it.day.Month(), it.day.Day(), slot.Hour, slot.Minute, 0, 0, it.day.Location())
		if !t.After(it.after) {
			continue
		}
		times = append(times, t)
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	for _, t := range times {
		if n := len(it.queue); n > 0 && it.queue[n-1].Equal(t) {
			continue
		}
		it.queue = append(it.queue, t)
	}
}
