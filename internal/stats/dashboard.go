package stats

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// Tier buckets an active streak for display
type Tier int

const (
	TierStar Tier = iota
	TierSpark
	TierFire
)

func (t Tier) Icon() string {
	switch t {
	case TierFire:
		return "🔥"
	case TierSpark:
		return "⚡"
	default:
		return "✨"
	}
}

// TierFor returns the display tier of a streak length.
func TierFor(streak int) Tier {
	switch {
	case streak >= constants.StreakTierFire:
		return TierFire
	case streak >= constants.StreakTierSpark:
		return TierSpark
	default:
		return TierStar
	}
}

// Summary is the per-habit card shown on the dashboard
type Summary struct {
	Streak         int
	Consistency    int
	CheckIns       int
	CompletedToday bool
}

func Summarize(h models.Habit, now time.Time, window int) Summary {
	return Summary{
		Streak:         Streak(h, now),
		Consistency:    Consistency(h, now, window),
		CheckIns:       TotalCheckIns(h),
		CompletedToday: IsDayCompleted(h, DayKey(now)),
	}
}

// QuickStats are the headline numbers across all habits
type QuickStats struct {
	BestStreak   int
	TodayPercent int
	WeekPercent  int
}

// Overview computes the best streak, the share of habits completed today and the share of
// habit-days completed in the current Sunday-first week.
func Overview(habits []models.Habit, now time.Time) QuickStats {
	var qs QuickStats
	if len(habits) == 0 {
		return qs
	}

	today := DayKey(now)
	week := WeekDates(now)
	todayDone, weekDone := 0, 0
	for _, h := range habits {
		if s := Streak(h, now); s > qs.BestStreak {
			qs.BestStreak = s
		}
		if IsDayCompleted(h, today) {
			todayDone++
		}
		for _, d := range week {
			if IsDayCompleted(h, DayKey(d)) {
				weekDone++
			}
		}
	}

	qs.TodayPercent = percent(todayDone, len(habits))
	qs.WeekPercent = percent(weekDone, len(habits)*len(week))
	return qs
}

// DayPoint is one sample of the overall completion chart
type DayPoint struct {
	Date    time.Time
	Key     string
	Percent float64
}

// DailyCompletion returns, for each of the trailing days, the percentage of habits completed
// that day. With no habits every point is 0.
func DailyCompletion(habits []models.Habit, now time.Time, days int) []DayPoint {
	dates := DateRange(days, now)
	points := make([]DayPoint, 0, len(dates))
	for _, d := range dates {
		key := DayKey(d)
		points = append(points, DayPoint{
			Date:    d,
			Key:     key,
			Percent: completedShare(habits, key),
		})
	}
	return points
}

// WeekdayAverages averages the daily completion percentage per weekday (Sunday first)
// over the trailing weeks*7 days.
func WeekdayAverages(habits []models.Habit, now time.Time, weeks int) [7]float64 {
	var sums [7]float64
	var counts [7]int
	if weeks <= 0 {
		return sums
	}
	for _, d := range DateRange(weeks*7, now) {
		wd := d.Weekday()
		sums[wd] += completedShare(habits, DayKey(d))
		counts[wd]++
	}
	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}
	return sums
}

// Ranked pairs a habit with the numbers used to order it
type Ranked struct {
	Habit       models.Habit
	Consistency int
	Streak      int
	Tier        Tier
}

// TopHabits orders habits by consistency over window (ties by streak) and keeps the
// first limit entries. A non-positive limit keeps all.
func TopHabits(habits []models.Habit, now time.Time, window, limit int) []Ranked {
	ranked := rank(habits, now, window)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Consistency != ranked[j].Consistency {
			return ranked[i].Consistency > ranked[j].Consistency
		}
		return ranked[i].Streak > ranked[j].Streak
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ActiveStreaks lists habits with a running streak, longest first.
func ActiveStreaks(habits []models.Habit, now time.Time) []Ranked {
	var active []Ranked
	for _, r := range rank(habits, now, DefaultWindow) {
		if r.Streak > 0 {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Streak > active[j].Streak
	})
	return active
}

// Bar is one day of the weekly progress view
type Bar struct {
	Date    time.Time
	Key     string
	Amount  int
	Percent float64 // amount/goal, capped at 100
}

func WeekProgress(h models.Habit, now time.Time) []Bar {
	week := WeekDates(now)
	bars := make([]Bar, 0, len(week))
	for _, d := range week {
		key := DayKey(d)
		amount := h.Amount(key)
		pct := 0.0
		if h.Goal > 0 && amount > 0 {
			pct = math.Min(float64(amount)/float64(h.Goal)*100, 100)
		}
		bars = append(bars, Bar{Date: d, Key: key, Amount: amount, Percent: pct})
	}
	return bars
}

// Cell is one day of the yearly calendar grid
type Cell struct {
	Date   time.Time
	Key    string
	Amount int
	Status Status
}

// YearGrid returns the trailing 365 days, oldest first.
func YearGrid(h models.Habit, now time.Time) []Cell {
	dates := DateRange(constants.YearWindow, now)
	cells := make([]Cell, 0, len(dates))
	for _, d := range dates {
		key := DayKey(d)
		cells = append(cells, Cell{
			Date:   d,
			Key:    key,
			Amount: h.Amount(key),
			Status: DayStatus(h, key),
		})
	}
	return cells
}

func rank(habits []models.Habit, now time.Time, window int) []Ranked {
	ranked := make([]Ranked, 0, len(habits))
	for _, h := range habits {
		streak := Streak(h, now)
		ranked = append(ranked, Ranked{
			Habit:       h,
			Consistency: Consistency(h, now, window),
			Streak:      streak,
			Tier:        TierFor(streak),
		})
	}
	return ranked
}

func completedShare(habits []models.Habit, key string) float64 {
	if len(habits) == 0 {
		return 0
	}
	done := 0
	for _, h := range habits {
		if IsDayCompleted(h, key) {
			done++
		}
	}
	return float64(done) / float64(len(habits)) * 100
}
