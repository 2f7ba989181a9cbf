// Package stats derives habit statistics from a habit record and a reference instant.
//
// Every function is pure: habits and "now" are explicit arguments, nothing is cached and
// nothing is mutated, so callers may invoke them from any goroutine. Day keys are computed
// in the location of the supplied time; pass local time to get local calendar days.
package stats

import (
	"math"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

const (
	// StreakScanLimit bounds how far back Streak looks. A habit completed every day for
	// longer than this reports a streak of exactly StreakScanLimit.
	StreakScanLimit = constants.StreakScanLimit

	// DefaultWindow is the trailing window used for consistency when none is given.
	DefaultWindow = constants.DefaultConsistencyWindow
)

// Status classifies a single day of a habit
type Status int

const (
	StatusEmpty Status = iota
	StatusPartial
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusPartial:
		return "partial"
	default:
		return "empty"
	}
}

// DayKey returns the canonical YYYY-MM-DD key for the calendar day containing t.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDayKey parses a day key into the first instant of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)), nil
}

// StartOfDay returns the first instant of the calendar day containing t, in t's location.
// Where DST starts at midnight that instant is 01:00, not 00:00. Use it for display only;
// calendar arithmetic goes through noon anchors.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	// A skipped midnight normalizes into the previous day
	for start.Day() != d {
		start = start.Add(30 * time.Minute)
	}
	return start
}

// noon anchors the calendar day containing t. Noon exists on every day in every zone, so
// day arithmetic from it never crosses into a neighbouring day.
func noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// AddDays returns noon of the calendar day days away from the day containing t. time.Date
// normalizes month and year overflow.
func AddDays(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 12, 0, 0, 0, t.Location())
}

// IsDayCompleted reports whether the recorded amount for day meets the habit goal.
// A habit with a non-positive goal is never completed.
func IsDayCompleted(h models.Habit, day string) bool {
	if h.Goal <= 0 {
		return false
	}
	return h.Amount(day) >= h.Goal
}

// DayStatus classifies day as empty, partial or completed.
func DayStatus(h models.Habit, day string) Status {
	if IsDayCompleted(h, day) {
		return StatusCompleted
	}
	if h.Amount(day) > 0 {
		return StatusPartial
	}
	return StatusEmpty
}

// Streak counts consecutive completed days ending at and including today.
// An incomplete today yields 0 regardless of earlier days.
func Streak(h models.Habit, now time.Time) int {
	today := noon(now)
	streak := 0
	for i := 0; i < StreakScanLimit; i++ {
		if !IsDayCompleted(h, DayKey(AddDays(today, -i))) {
			break
		}
		streak++
	}
	return streak
}

// Consistency returns the percentage (0..100) of completed days in the trailing window
// [today-(windowDays-1), today], rounded half away from zero. A window of zero or fewer
// days yields 0.
func Consistency(h models.Habit, now time.Time, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	completed := 0
	for _, day := range DateRange(windowDays, now) {
		if IsDayCompleted(h, DayKey(day)) {
			completed++
		}
	}
	return percent(completed, windowDays)
}

// TotalCheckIns sums every recorded amount. Negative amounts are ignored.
func TotalCheckIns(h models.Habit) int {
	total := 0
	for _, amount := range h.Completions {
		if amount > 0 {
			total += amount
		}
	}
	return total
}

// DateRange returns the days calendar days ending at today, oldest first. Each date is noon
// of its day.
func DateRange(days int, now time.Time) []time.Time {
	if days <= 0 {
		return []time.Time{}
	}
	today := noon(now)
	dates := make([]time.Time, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, AddDays(today, -i))
	}
	return dates
}

// WeekDates returns Sunday through Saturday of the week containing now, each at noon.
func WeekDates(now time.Time) []time.Time {
	today := noon(now)
	sunday := AddDays(today, -int(today.Weekday()))
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = AddDays(sunday, i)
	}
	return dates
}

// ToggleCompletion returns a copy of the completions with day flipped between 0 and the
// goal: a completed day becomes 0, anything else becomes the goal. The habit is not
// modified. A non-positive goal always writes 0 so amounts never go negative.
func ToggleCompletion(h models.Habit, day string) map[string]int {
	next := make(map[string]int, len(h.Completions)+1)
	for k, v := range h.Completions {
		next[k] = v
	}
	next[day] = ToggledAmount(h, day)
	return next
}

// ToggledAmount is the value ToggleCompletion writes for day.
func ToggledAmount(h models.Habit, day string) int {
	if IsDayCompleted(h, day) || h.Goal <= 0 {
		return 0
	}
	return h.Goal
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}
