package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

var mainViews = []constants.SessionState{
	constants.StateToday,
	constants.StateProgress,
	constants.StateHabits,
	constants.StateStats,
}

// HandleGlobalKeys handles key presses shared by the main views
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return true, tea.Quit
	}
	if m.HabitsModel.Filtering() {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Tab):
		m.State = cycle(m.State, 1)
		return true, nil
	case key.Matches(msg, m.Keys.ShiftTab):
		m.State = cycle(m.State, -1)
		return true, nil
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Theme):
		return true, Run(m, state.ToggleTheme{})
	case key.Matches(msg, m.Keys.Reset):
		RequestReset(m)
		return true, nil
	}

	if m.State == constants.StateProgress {
		switch {
		case key.Matches(msg, m.Keys.Mode):
			m.App.ToggleProgressMode()
			return true, nil
		case key.Matches(msg, m.Keys.Prev):
			m.App.Cycle(-1)
			return true, nil
		case key.Matches(msg, m.Keys.Next):
			m.App.Cycle(1)
			return true, nil
		case key.Matches(msg, m.Keys.Toggle):
			if h, ok := m.App.SelectedHabit(); ok {
				return true, Run(m, state.ToggleCompletion{HabitID: h.ID, DayKey: m.App.Today()})
			}
			return true, nil
		}
	}
	return false, nil
}

func cycle(s constants.SessionState, delta int) constants.SessionState {
	for i, v := range mainViews {
		if v == s {
			n := len(mainViews)
			return mainViews[((i+delta)%n+n)%n]
		}
	}
	return s
}
