package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/tui/state"
)

// CommandResultMsg reports a dispatched command.
type CommandResultMsg struct {
	Result state.Result
	Err    error
}

// Run dispatches cmd off the update loop. Habit changes arrive separately through the
// change feed.
func Run(m *state.Model, cmd state.Command) tea.Cmd {
	d := m.Dispatcher
	return func() tea.Msg {
		res, err := d.Dispatch(cmd)
		return CommandResultMsg{Result: res, Err: err}
	}
}

func HandleCommandResult(m *state.Model, msg CommandResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.Status = "Error: " + msg.Err.Error()
		return nil
	}

	res := msg.Result
	switch c := res.Command.(type) {
	case state.ToggleCompletion:
		if res.Amount > 0 {
			m.Status = fmt.Sprintf("✓ %s done for %s", res.Habit.Name, c.DayKey)
		} else {
			m.Status = fmt.Sprintf("%s cleared for %s", res.Habit.Name, c.DayKey)
		}
	case state.AddHabit:
		m.App.Selected = res.Habit.ID
		m.Status = fmt.Sprintf("Added %s %s", res.Habit.Icon, res.Habit.Name)
	case state.EditHabit:
		m.Status = fmt.Sprintf("Updated %s", res.Habit.Name)
	case state.DeleteHabit:
		m.Status = "Habit deleted"
	case state.ToggleTheme:
		m.App.Theme = res.Theme
		m.Refresh()
		m.Status = fmt.Sprintf("Theme: %s", res.Theme)
	case state.ResetAll:
		m.Status = "All habits deleted"
	}
	return nil
}
