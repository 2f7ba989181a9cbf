package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type EditHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

// SelectHabitMsg asks to show the habit in the progress view.
type SelectHabitMsg struct {
	ID string
}

type Item struct {
	Habit   models.Habit
	Summary stats.Summary
	Status  stats.Status
	Amount  int
}

func (i Item) Title() string {
	mark := "○"
	switch i.Status {
	case stats.StatusCompleted:
		mark = "✓"
	case stats.StatusPartial:
		mark = "◐"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.Icon, i.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%d/%d %s today · %s", i.Amount, i.Habit.Goal, i.Habit.Unit, i.Habit.Frequency.Label())
	if i.Summary.Streak > 0 {
		desc += fmt.Sprintf(" · %s %d day streak", stats.TierFor(i.Summary.Streak).Icon(), i.Summary.Streak)
	}
	desc += fmt.Sprintf(" · %d%%", i.Summary.Consistency)
	if i.Habit.Time != "" {
		desc += " · " + i.Habit.Time
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Progress key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle today"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Progress: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "progress"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete, keys.Progress}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the rows, keeping the cursor on the same habit when it still exists.
func (m *Model) SetItems(items []Item) {
	selected := ""
	if it, ok := m.list.SelectedItem().(Item); ok {
		selected = it.Habit.ID
	}
	m.list.SetItems(toListItems(items))
	for i, it := range items {
		if it.Habit.ID == selected {
			m.list.Select(i)
			return
		}
	}
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

// Filtering reports whether the user is typing a filter, so global keys must not fire.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Progress):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
