package handlers

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

// HabitsChangedMsg carries a fresh snapshot from the store change feed.
type HabitsChangedMsg struct {
	Habits []models.Habit
}

// FeedClosedMsg reports that the change feed ended.
type FeedClosedMsg struct{}

// TickMsg advances the clock so day boundaries are picked up while the TUI is open.
type TickMsg time.Time

// WaitForHabits blocks on the next snapshot. It must be re-issued after every
// HabitsChangedMsg.
func WaitForHabits(feed <-chan []models.Habit) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		habits, ok := <-feed
		if !ok {
			return FeedClosedMsg{}
		}
		return HabitsChangedMsg{Habits: habits}
	}
}

func Tick() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HandleFeedMessages applies snapshots and clock ticks to the app state
func HandleFeedMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case HabitsChangedMsg:
		m.App.SetHabits(msg.Habits)
		m.Refresh()
		return true, WaitForHabits(m.Feed)

	case FeedClosedMsg:
		logger.Warn("Habit change feed closed")
		m.Feed = nil
		m.Status = "Live updates stopped. Restart to reconnect."
		return true, nil

	case TickMsg:
		m.App.Now = time.Time(msg)
		if m.Clock != nil {
			m.App.Now = m.Clock()
		}
		m.Refresh()
		return true, Tick()
	}
	return false, nil
}
