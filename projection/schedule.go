package projection

import (
	"sort"
)

// =============================================================================
// CREW SCHEDULE - When extra crews join
// =============================================================================

// CrewSchedule is the ordered set of days on which a crew is added.
//
// A crew added on day a is hired at the close of that day and works from
// day a+1. So the crew count on day d is
//
//	min(1 + |{a : a < d}|, maxCrews)
//
// which is a non-decreasing step function starting at 1. A day appears at
// most once; adding it again is a no-op.
type CrewSchedule struct {
	days []int
}

// NewCrewSchedule builds a schedule from days in any order. Days below 1
// are ignored and duplicates collapse.
func NewCrewSchedule(days ...int) CrewSchedule {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return CrewSchedule{days: out}
}

// Add returns a schedule that also adds a crew on day. The receiver is unchanged.
func (s CrewSchedule) Add(day int) CrewSchedule {
	return NewCrewSchedule(append(s.Days(), day)...)
}

// Days returns a copy of the addition days, ascending.
func (s CrewSchedule) Days() []int {
	cp := make([]int, len(s.days))
	copy(cp, s.days)
	return cp
}

func (s CrewSchedule) Len() int { return len(s.days) }

// Contains reports whether a crew is added on day.
func (s CrewSchedule) Contains(day int) bool {
	i := sort.SearchInts(s.days, day)
	return i < len(s.days) && s.days[i] == day
}

// LastAddition returns the most recent addition day, or 0 when none.
func (s CrewSchedule) LastAddition() int {
	if len(s.days) == 0 {
		return 0
	}
	return s.days[len(s.days)-1]
}

// AddedBefore counts additions strictly before day.
func (s CrewSchedule) AddedBefore(day int) int {
	return sort.SearchInts(s.days, day)
}

// CrewsOn returns the number of active crews on a 1-based day, capped at maxCrews.
// Additions beyond the cap are kept but have no effect. A cap below one
// still leaves the starting crew.
func (s CrewSchedule) CrewsOn(day, maxCrews int) int {
	if maxCrews < 1 {
		maxCrews = 1
	}
	return min(1+s.AddedBefore(day), maxCrews)
}
