package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/tui/handlers"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Feed snapshots, ticks and command results apply in every state
	if handled, cmd := handlers.HandleFeedMessages(&m.Model, msg); handled {
		return m, cmd
	}
	if res, ok := msg.(handlers.CommandResultMsg); ok {
		return m, handlers.HandleCommandResult(&m.Model, res)
	}

	switch m.State {
	case constants.StateAddHabit, constants.StateEditHabit:
		return m, handlers.HandleHabitFormState(&m.Model, msg)
	case constants.StateConfirmDelete, constants.StateConfirmReset:
		return m, handlers.HandleConfirmState(&m.Model, msg)
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		// tabs, status and help take the rest
		m.HabitsModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
	}

	switch m.State {
	case constants.StateToday, constants.StateHabits:
		var cmd tea.Cmd
		m.HabitsModel, cmd = m.HabitsModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
