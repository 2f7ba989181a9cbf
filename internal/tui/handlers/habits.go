package handlers

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

// HandleHabitMessages handles messages from the habits component
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.HabitForm = state.NewHabitFormModel(nil)
		m.EditingHabitID = ""
		m.Form = NewHabitForm(m.HabitForm, "New habit")
		m.ReturnState = m.State
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.EditHabitMsg:
		for _, h := range m.App.Habits {
			if h.ID != msg.ID {
				continue
			}
			m.HabitForm = state.NewHabitFormModel(&h)
			m.EditingHabitID = h.ID
			m.Form = NewHabitForm(m.HabitForm, "Edit habit")
			m.ReturnState = m.State
			m.State = constants.StateEditHabit
			return true, m.Form.Init()
		}
		return true, nil

	case habits.ToggleHabitMsg:
		return true, Run(m, state.ToggleCompletion{HabitID: msg.ID, DayKey: m.App.Today()})

	case habits.DeleteHabitMsg:
		m.PendingCommand = state.DeleteHabit{HabitID: msg.ID}
		m.ReturnState = m.State
		m.State = constants.StateConfirmDelete
		return true, nil

	case habits.SelectHabitMsg:
		m.App.Selected = msg.ID
		m.State = constants.StateProgress
		return true, nil
	}
	return false, nil
}

// HandleHabitFormState handles the add and edit habit states
func HandleHabitFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.FormError = ""
		m.State = m.ReturnState
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		fields, err := m.HabitForm.Fields()
		if err != nil {
			// Stay in the form so the user can fix it or cancel with ESC
			m.FormError = err.Error()
			m.Form.State = huh.StateNormal
			break
		}
		var command state.Command = state.AddHabit{Fields: fields}
		if m.State == constants.StateEditHabit {
			command = state.EditHabit{HabitID: m.EditingHabitID, Fields: fields}
		}
		m.FormError = ""
		m.EditingHabitID = ""
		m.State = m.ReturnState
		cmds = append(cmds, Run(m, command))
	case huh.StateAborted:
		m.FormError = ""
		m.State = m.ReturnState
	}
	return tea.Batch(cmds...)
}
