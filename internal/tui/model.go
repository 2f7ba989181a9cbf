package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tui/handlers"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

// Options configures a TUI session
type Options struct {
	// Now supplies the clock. Defaults to time.Now.
	Now func() time.Time
	// Window is the consistency window in days.
	Window int
	// BeforeReset runs before every habit is deleted, typically a backup.
	BeforeReset func() error
}

type Model struct {
	state.Model
}

// NewModel loads the persisted theme and subscribes to the store change feed. The
// subscription ends when ctx is cancelled.
func NewModel(ctx context.Context, store storage.Provider, opts Options) (Model, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	settings, err := store.GetSettings()
	if err != nil {
		return Model{}, fmt.Errorf("failed to load settings: %w", err)
	}

	feed, err := store.Subscribe(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("failed to subscribe to habit changes: %w", err)
	}

	dispatcher := state.NewDispatcher(store)
	dispatcher.BeforeReset = opts.BeforeReset

	app := state.NewApp(now(), opts.Window, settings.Theme)
	logger.Debug("TUI model created", "theme", app.Theme, "window", app.Window)
	m := state.New(app, dispatcher, feed)
	m.Clock = now
	return Model{Model: m}, nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.Keys.Tab, m.Keys.Quit, m.Keys.Help}
	switch m.State {
	case constants.StateToday, constants.StateHabits:
		keys = append(keys, m.Keys.Toggle, m.Keys.Add, m.Keys.Edit, m.Keys.Delete)
	case constants.StateProgress:
		keys = append(keys, m.Keys.Prev, m.Keys.Next, m.Keys.Mode, m.Keys.Toggle)
	}
	return append(keys, m.Keys.Theme)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Tab, m.Keys.ShiftTab, m.Keys.Quit, m.Keys.Help, m.Keys.Theme, m.Keys.Reset}
	navigation := []key.Binding{m.Keys.Up, m.Keys.Down}

	var actions []key.Binding
	switch m.State {
	case constants.StateToday, constants.StateHabits:
		actions = []key.Binding{m.Keys.Toggle, m.Keys.Add, m.Keys.Edit, m.Keys.Delete}
	case constants.StateProgress:
		navigation = []key.Binding{m.Keys.Prev, m.Keys.Next}
		actions = []key.Binding{m.Keys.Mode, m.Keys.Toggle}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(handlers.WaitForHabits(m.Feed), handlers.Tick())
}
