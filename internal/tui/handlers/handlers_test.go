package handlers

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)

func newModel(t *testing.T) (*state.Model, storage.Provider) {
	t.Helper()
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitlit.json"))
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })

	m := state.New(state.NewApp(testNow, 30, models.ThemeDark), state.NewDispatcher(s), nil)
	return &m, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCycleViews(t *testing.T) {
	assert.Equal(t, constants.StateProgress, cycle(constants.StateToday, 1))
	assert.Equal(t, constants.StateToday, cycle(constants.StateStats, 1))
	assert.Equal(t, constants.StateStats, cycle(constants.StateToday, -1))
	assert.Equal(t, constants.StateAddHabit, cycle(constants.StateAddHabit, 1))
}

func TestHandleGlobalKeys(t *testing.T) {
	m, _ := newModel(t)

	handled, _ := HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, handled)
	assert.Equal(t, constants.StateProgress, m.State)

	handled, _ = HandleGlobalKeys(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.True(t, handled)
	assert.Equal(t, constants.StateToday, m.State)

	handled, _ = HandleGlobalKeys(m, runes("?"))
	assert.True(t, handled)
	assert.True(t, m.Help.ShowAll)

	handled, _ = HandleGlobalKeys(m, runes("R"))
	assert.True(t, handled)
	assert.Equal(t, constants.StateConfirmReset, m.State)
	assert.Equal(t, state.ResetAll{}, m.PendingCommand)
	assert.Equal(t, constants.StateToday, m.ReturnState)

	m.State = constants.StateToday
	handled, cmd := HandleGlobalKeys(m, runes("q"))
	assert.True(t, handled)
	assert.True(t, m.Quitting)
	assert.NotNil(t, cmd)
}

func TestHandleGlobalKeysProgress(t *testing.T) {
	m, s := newModel(t)
	a, err := s.CreateHabit(storagetest.Fields("A"))
	require.NoError(t, err)
	b, err := s.CreateHabit(storagetest.Fields("B"))
	require.NoError(t, err)
	m.App.SetHabits([]models.Habit{b, a})
	m.State = constants.StateProgress

	handled, _ := HandleGlobalKeys(m, runes("m"))
	assert.True(t, handled)
	assert.Equal(t, state.ProgressYear, m.App.Progress)

	handled, _ = HandleGlobalKeys(m, runes("l"))
	assert.True(t, handled)
	assert.Equal(t, a.ID, m.App.Selected)

	handled, cmd := HandleGlobalKeys(m, runes(" "))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	res, ok := cmd().(CommandResultMsg)
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, a.ID, res.Result.Habit.ID)
	assert.Equal(t, 2, res.Result.Amount)

	// Toggle is left to the habit list outside the progress view
	m.State = constants.StateToday
	handled, _ = HandleGlobalKeys(m, runes("x"))
	assert.False(t, handled)
}

func TestHandleHabitMessagesOpenForms(t *testing.T) {
	m, s := newModel(t)
	h, err := s.CreateHabit(storagetest.Fields("Read"))
	require.NoError(t, err)
	m.App.SetHabits([]models.Habit{h})
	m.State = constants.StateHabits

	handled, _ := HandleHabitMessages(m, habits.AddHabitMsg{})
	assert.True(t, handled)
	assert.Equal(t, constants.StateAddHabit, m.State)
	assert.Equal(t, constants.StateHabits, m.ReturnState)
	require.NotNil(t, m.Form)
	assert.Equal(t, constants.DefaultHabitIcon, m.HabitForm.Icon)

	m.State = constants.StateHabits
	handled, _ = HandleHabitMessages(m, habits.EditHabitMsg{ID: h.ID})
	assert.True(t, handled)
	assert.Equal(t, constants.StateEditHabit, m.State)
	assert.Equal(t, h.ID, m.EditingHabitID)
	assert.Equal(t, "Read", m.HabitForm.Name)
	assert.Equal(t, "2", m.HabitForm.Goal)
}

func TestHandleHabitFormEscape(t *testing.T) {
	m, _ := newModel(t)
	m.State = constants.StateToday
	HandleHabitMessages(m, habits.AddHabitMsg{})
	require.Equal(t, constants.StateAddHabit, m.State)

	cmd := HandleHabitFormState(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, constants.StateToday, m.State)
}

func TestHandleHabitMessagesSelect(t *testing.T) {
	m, _ := newModel(t)
	handled, _ := HandleHabitMessages(m, habits.SelectHabitMsg{ID: "abc"})
	assert.True(t, handled)
	assert.Equal(t, "abc", m.App.Selected)
	assert.Equal(t, constants.StateProgress, m.State)

	handled, _ = HandleHabitMessages(m, tea.WindowSizeMsg{})
	assert.False(t, handled)
}

func TestDeleteConfirmation(t *testing.T) {
	m, s := newModel(t)
	h, err := s.CreateHabit(storagetest.Fields("Read"))
	require.NoError(t, err)
	m.State = constants.StateHabits

	t.Run("cancel", func(t *testing.T) {
		HandleHabitMessages(m, habits.DeleteHabitMsg{ID: h.ID})
		assert.Equal(t, constants.StateConfirmDelete, m.State)

		cmd := HandleConfirmState(m, runes("n"))
		assert.Nil(t, cmd)
		assert.Equal(t, constants.StateHabits, m.State)
		assert.Nil(t, m.PendingCommand)

		_, err := s.GetHabit(h.ID)
		assert.NoError(t, err)
	})

	t.Run("confirm", func(t *testing.T) {
		HandleHabitMessages(m, habits.DeleteHabitMsg{ID: h.ID})
		cmd := HandleConfirmState(m, runes("y"))
		require.NotNil(t, cmd)
		assert.Equal(t, constants.StateHabits, m.State)

		res, ok := cmd().(CommandResultMsg)
		require.True(t, ok)
		require.NoError(t, res.Err)

		_, err := s.GetHabit(h.ID)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})

	t.Run("other keys ignored", func(t *testing.T) {
		HandleHabitMessages(m, habits.DeleteHabitMsg{ID: h.ID})
		assert.Nil(t, HandleConfirmState(m, runes("x")))
		assert.Equal(t, constants.StateConfirmDelete, m.State)
	})
}

func TestHandleCommandResult(t *testing.T) {
	m, _ := newModel(t)

	HandleCommandResult(m, CommandResultMsg{Err: errors.New("boom")})
	assert.Equal(t, "Error: boom", m.Status)

	HandleCommandResult(m, CommandResultMsg{Result: state.Result{
		Command: state.ToggleTheme{},
		Theme:   models.ThemeLight,
	}})
	assert.Equal(t, models.ThemeLight, m.App.Theme)
	assert.Equal(t, models.ThemeLight, m.Palette.Name)

	h := models.Habit{ID: "h1", Name: "Read", Icon: "📚"}
	HandleCommandResult(m, CommandResultMsg{Result: state.Result{
		Command: state.AddHabit{},
		Habit:   h,
	}})
	assert.Equal(t, "h1", m.App.Selected)
	assert.Contains(t, m.Status, "Added")

	HandleCommandResult(m, CommandResultMsg{Result: state.Result{
		Command: state.ToggleCompletion{HabitID: "h1", DayKey: "2024-05-01"},
		Habit:   h,
		Amount:  0,
	}})
	assert.Equal(t, "Read cleared for 2024-05-01", m.Status)
}

func TestHandleFeedMessages(t *testing.T) {
	m, _ := newModel(t)
	feed := make(chan []models.Habit, 1)
	m.Feed = feed

	list := []models.Habit{{ID: "a", Name: "A", Goal: 1, Completions: map[string]int{}}}
	handled, cmd := HandleFeedMessages(m, HabitsChangedMsg{Habits: list})
	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.Len(t, m.App.Habits, 1)
	assert.Equal(t, "a", m.App.Selected)

	feed <- nil
	assert.Equal(t, HabitsChangedMsg{Habits: nil}, cmd())

	close(feed)
	assert.Equal(t, FeedClosedMsg{}, WaitForHabits(feed)())

	handled, _ = HandleFeedMessages(m, FeedClosedMsg{})
	assert.True(t, handled)
	assert.Nil(t, m.Feed)
	assert.Nil(t, WaitForHabits(m.Feed))

	later := testNow.Add(24 * time.Hour)
	handled, _ = HandleFeedMessages(m, TickMsg(later))
	assert.True(t, handled)
	assert.Equal(t, "2024-05-02", m.App.Today())
}

func TestHandleFeedMessages_TickUsesInjectedClock(t *testing.T) {
	m, _ := newModel(t)
	fixed := testNow.Add(2 * time.Hour)
	m.Clock = func() time.Time { return fixed }

	handled, cmd := HandleFeedMessages(m, TickMsg(testNow.AddDate(1, 0, 0)))
	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.Equal(t, fixed, m.App.Now)
	assert.Equal(t, "2024-05-01", m.App.Today())
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateGoal("3"))
	assert.Error(t, validateGoal("0"))
	assert.Error(t, validateGoal("many"))

	assert.NoError(t, validateTime(""))
	assert.NoError(t, validateTime("07:30"))
	assert.Error(t, validateTime("7pm"))
}
