package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

// HandleConfirmState handles the delete and reset confirmation states
func HandleConfirmState(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		command := m.PendingCommand
		m.PendingCommand = nil
		m.State = m.ReturnState
		if command == nil {
			return nil
		}
		return Run(m, command)
	case "n", "N", "esc":
		m.PendingCommand = nil
		m.State = m.ReturnState
	}
	return nil
}

// RequestReset asks for confirmation before deleting every habit.
func RequestReset(m *state.Model) {
	m.PendingCommand = state.ResetAll{}
	m.ReturnState = m.State
	m.State = constants.StateConfirmReset
}
