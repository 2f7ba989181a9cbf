package state

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/theme"
)

// HabitFormModel backs the add and edit forms
type HabitFormModel struct {
	Name      string
	Icon      string
	Frequency string
	Time      string
	Goal      string
	Unit      string
}

// NewHabitFormModel prefills the form from h, or with defaults when h is nil.
func NewHabitFormModel(h *models.Habit) *HabitFormModel {
	if h == nil {
		return &HabitFormModel{
			Icon:      constants.DefaultHabitIcon,
			Frequency: constants.DefaultHabitFrequency,
			Goal:      strconv.Itoa(constants.DefaultHabitGoal),
			Unit:      constants.DefaultHabitUnit,
		}
	}
	return &HabitFormModel{
		Name:      h.Name,
		Icon:      h.Icon,
		Frequency: string(h.Frequency),
		Time:      h.Time,
		Goal:      strconv.Itoa(h.Goal),
		Unit:      h.Unit,
	}
}

func (f HabitFormModel) Fields() (models.HabitFields, error) {
	goal, err := strconv.Atoi(strings.TrimSpace(f.Goal))
	if err != nil {
		return models.HabitFields{}, fmt.Errorf("goal must be a number: %q", f.Goal)
	}
	return models.HabitFields{
		Name:      strings.TrimSpace(f.Name),
		Icon:      f.Icon,
		Frequency: f.Frequency,
		Time:      strings.TrimSpace(f.Time),
		Goal:      goal,
		Unit:      strings.TrimSpace(f.Unit),
	}, nil
}

// Model represents the shared state for the TUI
type Model struct {
	App         App
	Dispatcher  *Dispatcher
	Feed        <-chan []models.Habit
	// Clock is read on every tick. Nil falls back to the tick time.
	Clock       func() time.Time
	State       constants.SessionState
	Keys        KeyMap
	Help        help.Model
	HabitsModel habits.Model
	Palette     theme.Palette

	Form           *huh.Form
	HabitForm      *HabitFormModel
	EditingHabitID string
	// PendingCommand waits for a yes/no confirmation.
	PendingCommand Command
	ReturnState    constants.SessionState

	Quitting  bool
	Width     int
	Height    int
	Status    string
	FormError string
}

func New(app App, dispatcher *Dispatcher, feed <-chan []models.Habit) Model {
	return Model{
		App:         app,
		Dispatcher:  dispatcher,
		Feed:        feed,
		State:       constants.StateToday,
		Keys:        DefaultKeyMap(),
		Help:        help.New(),
		HabitsModel: habits.New(app.Cards(), 0, 0),
		Palette:     theme.For(app.Theme),
	}
}

// Refresh recomputes component data from App.
func (m *Model) Refresh() {
	m.HabitsModel.SetItems(m.App.Cards())
	m.Palette = theme.For(m.App.Theme)
}
