// Package dashboard renders the cross-habit statistics view.
package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/tui/theme"
)

var sparks = []rune("▁▂▃▄▅▆▇█")

const weekdayBarWidth = 15

// Data is everything the view renders
type Data struct {
	Quick    stats.QuickStats
	Daily    []stats.DayPoint
	Weekdays [7]float64
	Top      []stats.Ranked
	Active   []stats.Ranked
}

func View(d Data, p theme.Palette) string {
	sections := []string{
		quick(d.Quick, p),
		section("Last 30 days", Sparkline(d.Daily), p),
		section("By weekday (4 weeks)", weekdays(d.Weekdays, p), p),
		section("Top habits", top(d.Top, p), p),
		section("Active streaks", active(d.Active, p), p),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func section(title, body string, p theme.Palette) string {
	return "\n" + p.Accent.Render(title) + "\n" + body
}

func quick(q stats.QuickStats, p theme.Palette) string {
	box := func(label, value string) string {
		return p.Card.Render(lipgloss.JoinVertical(lipgloss.Center, p.Accent.Render(value), p.Muted.Render(label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box("best streak", fmt.Sprintf("%d", q.BestStreak)),
		box("today", fmt.Sprintf("%d%%", q.TodayPercent)),
		box("this week", fmt.Sprintf("%d%%", q.WeekPercent)),
	)
}

// Sparkline maps each day's completion percentage to a block glyph.
func Sparkline(points []stats.DayPoint) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for _, pt := range points {
		idx := int(math.Round(pt.Percent / 100 * float64(len(sparks)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparks) {
			idx = len(sparks) - 1
		}
		b.WriteRune(sparks[idx])
	}
	return b.String()
}

func weekdays(avg [7]float64, p theme.Palette) string {
	lines := make([]string, 0, 7)
	for i, v := range avg {
		filled := int(math.Round(v / 100 * weekdayBarWidth))
		lines = append(lines, fmt.Sprintf("%s %s%s %3.0f%%",
			time.Weekday(i).String()[:3],
			p.Done.Render(strings.Repeat("█", filled)),
			p.Empty.Render(strings.Repeat("░", weekdayBarWidth-filled)),
			v))
	}
	return strings.Join(lines, "\n")
}

func top(ranked []stats.Ranked, p theme.Palette) string {
	if len(ranked) == 0 {
		return p.Muted.Render("No habits yet.")
	}
	lines := make([]string, 0, len(ranked))
	for i, r := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s %s  %d%%", i+1, r.Habit.Icon, r.Habit.Name, r.Consistency))
	}
	return strings.Join(lines, "\n")
}

func active(ranked []stats.Ranked, p theme.Palette) string {
	if len(ranked) == 0 {
		return p.Muted.Render("No active streaks. Complete a habit today to start one.")
	}
	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		lines = append(lines, fmt.Sprintf("%s %s %s  %d days", r.Tier.Icon(), r.Habit.Icon, r.Habit.Name, r.Streak))
	}
	return strings.Join(lines, "\n")
}
