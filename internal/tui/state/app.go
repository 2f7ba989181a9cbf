package state

import (
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/tui/components/dashboard"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
)

// ProgressMode selects the progress view layout
type ProgressMode int

const (
	ProgressWeek ProgressMode = iota
	ProgressYear
)

// App is the application state every view is derived from. Habits only change when the
// store publishes a new snapshot.
type App struct {
	Habits   []models.Habit
	Theme    models.Theme
	Now      time.Time
	Window   int
	Selected string // habit shown in the progress view
	Progress ProgressMode
}

func NewApp(now time.Time, window int, theme models.Theme) App {
	if window <= 0 {
		window = constants.DefaultConsistencyWindow
	}
	if !theme.IsValid() {
		theme = models.Theme(constants.DefaultTheme)
	}
	return App{Habits: []models.Habit{}, Theme: theme, Now: now, Window: window}
}

// SetHabits replaces the habit list, keeping the selection when the habit still exists.
func (a *App) SetHabits(list []models.Habit) {
	if list == nil {
		list = []models.Habit{}
	}
	a.Habits = list
	if _, ok := a.SelectedHabit(); !ok {
		a.Selected = ""
		if len(list) > 0 {
			a.Selected = list[0].ID
		}
	}
}

func (a App) Today() string {
	return stats.DayKey(a.Now)
}

// Cards returns one row per habit for the Today and Habits views.
func (a App) Cards() []habits.Item {
	today := a.Today()
	cards := make([]habits.Item, 0, len(a.Habits))
	for _, h := range a.Habits {
		cards = append(cards, habits.Item{
			Habit:   h,
			Summary: stats.Summarize(h, a.Now, a.Window),
			Status:  stats.DayStatus(h, today),
			Amount:  h.Amount(today),
		})
	}
	return cards
}

func (a App) Quick() stats.QuickStats {
	return stats.Overview(a.Habits, a.Now)
}

func (a App) SelectedHabit() (models.Habit, bool) {
	for _, h := range a.Habits {
		if h.ID == a.Selected {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Cycle moves the progress selection by delta, wrapping around.
func (a *App) Cycle(delta int) {
	n := len(a.Habits)
	if n == 0 {
		return
	}
	idx := 0
	for i, h := range a.Habits {
		if h.ID == a.Selected {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	a.Selected = a.Habits[idx].ID
}

func (a *App) ToggleProgressMode() {
	if a.Progress == ProgressWeek {
		a.Progress = ProgressYear
	} else {
		a.Progress = ProgressWeek
	}
}

func (a App) Dashboard() dashboard.Data {
	return dashboard.Data{
		Quick:    a.Quick(),
		Daily:    stats.DailyCompletion(a.Habits, a.Now, constants.DefaultConsistencyWindow),
		Weekdays: stats.WeekdayAverages(a.Habits, a.Now, constants.WeekdayAverageWeeks),
		Top:      stats.TopHabits(a.Habits, a.Now, a.Window, constants.TopHabitsLimit),
		Active:   stats.ActiveStreaks(a.Habits, a.Now),
	}
}
