package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/tui/components/dashboard"
	"github.com/julianstephens/habitlit/internal/tui/components/progress"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

var tabTitles = []string{"Today", "Progress", "Habits", "Stats"}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string

	switch m.State {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateProgress:
		content = m.viewProgress()
	case constants.StateHabits:
		content = m.viewHabits()
	case constants.StateStats:
		content = m.viewStats()
	case constants.StateAddHabit, constants.StateEditHabit:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	}

	var status string
	if m.Status != "" {
		status = statusStyle.Render(m.Palette.Muted.Render(m.Status))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.Help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.State == constants.SessionState(i) {
			tabs = append(tabs, m.Palette.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.Palette.Tab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	q := m.App.Quick()
	header := m.Palette.Accent.Render(m.App.Now.Format("Monday, January 2")) + "  " +
		m.Palette.Muted.Render(fmt.Sprintf("%d%% today · %d%% this week · best streak %d",
			q.TodayPercent, q.WeekPercent, q.BestStreak))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.HabitsModel.View()))
}

func (m Model) viewProgress() string {
	h, ok := m.App.SelectedHabit()
	if !ok {
		return docStyle.Render(m.Palette.Muted.Render("No habits yet. Press tab to reach Habits and add one."))
	}
	return docStyle.Render(progress.View(h, m.App.Now, m.App.Progress == state.ProgressYear, m.Palette))
}

func (m Model) viewHabits() string {
	return docStyle.Render(m.HabitsModel.View())
}

func (m Model) viewStats() string {
	return docStyle.Render(dashboard.View(m.App.Dashboard(), m.Palette))
}

func (m Model) viewForm() string {
	if m.Form == nil {
		return ""
	}
	view := m.Form.View()
	if m.FormError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.Palette.Danger.Render(m.FormError))
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmDelete() string {
	name := "this habit"
	if c, ok := m.PendingCommand.(state.DeleteHabit); ok {
		for _, h := range m.App.Habits {
			if h.ID == c.HabitID {
				name = fmt.Sprintf("%s %s", h.Icon, h.Name)
			}
		}
	}
	return m.confirm(
		m.Palette.Danger.Render(fmt.Sprintf("Delete %s?", name)),
		"Its whole history will be removed.",
	)
}

func (m Model) viewConfirmReset() string {
	return m.confirm(
		m.Palette.Danger.Render("Delete ALL habits?"),
		m.Palette.Warning.Render("A backup is taken first when the store supports it."),
	)
}

func (m Model) confirm(lines ...string) string {
	lines = append(lines, "", "[y] Yes", "[n] No")
	box := confirmStyle.BorderForeground(m.Palette.Danger.GetForeground()).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(m.Width, m.Height-4, lipgloss.Center, lipgloss.Center, box)
}
