// Package progress renders a single habit's week bars and year calendar.
package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/tui/theme"
)

const barWidth = 20

func Header(h models.Habit, now time.Time, p theme.Palette) string {
	s := stats.Summarize(h, now, constants.DefaultConsistencyWindow)
	title := p.Accent.Render(fmt.Sprintf("%s %s", h.Icon, h.Name))
	info := p.Muted.Render(fmt.Sprintf("goal %d %s · %s", h.Goal, h.Unit, h.Frequency.Label()))
	numbers := fmt.Sprintf("%s %d day streak   %d%% (30d)   %d check-ins",
		stats.TierFor(s.Streak).Icon(), s.Streak, s.Consistency, s.CheckIns)
	return lipgloss.JoinVertical(lipgloss.Left, title, info, "", numbers)
}

// Week renders one bar per day, Sunday first.
func Week(h models.Habit, now time.Time, p theme.Palette) string {
	today := stats.DayKey(now)
	var b strings.Builder
	for _, bar := range stats.WeekProgress(h, now) {
		filled := int(math.Round(bar.Percent / 100 * barWidth))
		style := p.Partial
		if bar.Percent >= 100 {
			style = p.Done
		}
		label := bar.Date.Format("Mon")
		if bar.Key == today {
			label = p.Accent.Render(label)
		}
		fmt.Fprintf(&b, "%s %s%s %3.0f%%  %d/%d\n",
			label,
			style.Render(strings.Repeat("█", filled)),
			p.Empty.Render(strings.Repeat("░", barWidth-filled)),
			bar.Percent, bar.Amount, h.Goal)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Year renders the trailing 365 days as weekday rows and week columns.
func Year(h models.Habit, now time.Time, p theme.Palette) string {
	cells := stats.YearGrid(h, now)
	if len(cells) == 0 {
		return ""
	}
	offset := int(cells[0].Date.Weekday())
	cols := (len(cells) + offset + 6) / 7

	rows := make([][]string, 7)
	for r := range rows {
		rows[r] = make([]string, cols)
		for c := range rows[r] {
			rows[r][c] = " "
		}
	}
	for i, cell := range cells {
		pos := i + offset
		rows[pos%7][pos/7] = glyph(cell.Status, p)
	}

	var b strings.Builder
	for r, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", time.Weekday(r).String()[:3], strings.Join(row, ""))
	}
	fmt.Fprintf(&b, "    %s done  %s partial  %s none",
		glyph(stats.StatusCompleted, p), glyph(stats.StatusPartial, p), glyph(stats.StatusEmpty, p))
	return b.String()
}

func glyph(s stats.Status, p theme.Palette) string {
	switch s {
	case stats.StatusCompleted:
		return p.Done.Render("■")
	case stats.StatusPartial:
		return p.Partial.Render("■")
	default:
		return p.Empty.Render("·")
	}
}

// View renders the header and either layout.
func View(h models.Habit, now time.Time, year bool, p theme.Palette) string {
	body := Week(h, now, p)
	if year {
		body = Year(h, now, p)
	}
	return lipgloss.JoinVertical(lipgloss.Left, Header(h, now, p), "", body)
}
