package state

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Command is a user intent. The set is closed: only types in this package implement it.
type Command interface {
	command()
}

// ToggleCompletion flips DayKey between 0 and the habit goal.
type ToggleCompletion struct {
	HabitID string
	DayKey  string
}

type AddHabit struct {
	Fields models.HabitFields
}

// EditHabit replaces the editable fields; completion history is kept.
type EditHabit struct {
	HabitID string
	Fields  models.HabitFields
}

type DeleteHabit struct {
	HabitID string
}

type ToggleTheme struct{}

// ResetAll deletes every habit.
type ResetAll struct{}

func (ToggleCompletion) command() {}
func (AddHabit) command()         {}
func (EditHabit) command()        {}
func (DeleteHabit) command()      {}
func (ToggleTheme) command()      {}
func (ResetAll) command()         {}

// Result reports what a command changed
type Result struct {
	Command Command
	Habit   models.Habit // AddHabit, EditHabit, ToggleCompletion
	Amount  int          // ToggleCompletion: the amount written
	Theme   models.Theme // ToggleTheme
}

// Dispatcher applies commands to the store. Views never write to the store directly.
type Dispatcher struct {
	Store     storage.Provider
	Validator *validation.Validator
	// BeforeReset runs before ResetAll deletes anything; an error aborts the reset.
	BeforeReset func() error
}

func NewDispatcher(store storage.Provider) *Dispatcher {
	return &Dispatcher{Store: store, Validator: validation.New()}
}

func (d *Dispatcher) Dispatch(cmd Command) (Result, error) {
	res := Result{Command: cmd}
	var err error

	switch c := cmd.(type) {
	case ToggleCompletion:
		res.Habit, res.Amount, err = d.toggle(c)
	case AddHabit:
		res.Habit, err = d.add(c)
	case EditHabit:
		res.Habit, err = d.edit(c)
	case DeleteHabit:
		err = d.Store.DeleteHabit(c.HabitID)
	case ToggleTheme:
		res.Theme, err = d.toggleTheme()
	case ResetAll:
		err = d.reset()
	default:
		err = fmt.Errorf("unknown command %T", cmd)
	}

	if err != nil {
		logger.Debug("Command failed", "command", fmt.Sprintf("%T", cmd), "error", err)
		return Result{Command: cmd}, err
	}
	return res, nil
}

func (d *Dispatcher) toggle(c ToggleCompletion) (models.Habit, int, error) {
	if _, err := stats.ParseDayKey(c.DayKey, time.Local); err != nil {
		return models.Habit{}, 0, fmt.Errorf("%w: %q", storage.ErrInvalidDay, c.DayKey)
	}
	h, err := d.Store.GetHabit(c.HabitID)
	if err != nil {
		return models.Habit{}, 0, err
	}
	next := stats.ToggleCompletion(h, c.DayKey)
	amount := next[c.DayKey]
	if err := d.Store.SetCompletion(h.ID, c.DayKey, amount); err != nil {
		return models.Habit{}, 0, err
	}
	if amount == 0 {
		delete(next, c.DayKey)
	}
	h.Completions = next
	return h, amount, nil
}

func (d *Dispatcher) add(c AddHabit) (models.Habit, error) {
	result := d.Validator.ValidateHabitFields(c.Fields)
	if err := result.Err(); err != nil {
		return models.Habit{}, err
	}
	return d.Store.CreateHabit(c.Fields)
}

func (d *Dispatcher) edit(c EditHabit) (models.Habit, error) {
	result := d.Validator.ValidateHabitFields(c.Fields)
	if err := result.Err(); err != nil {
		return models.Habit{}, err
	}
	if err := d.Store.UpdateHabit(c.HabitID, c.Fields); err != nil {
		return models.Habit{}, err
	}
	return d.Store.GetHabit(c.HabitID)
}

func (d *Dispatcher) toggleTheme() (models.Theme, error) {
	settings, err := d.Store.GetSettings()
	if err != nil {
		return "", err
	}
	settings.Theme = settings.Theme.Toggle()
	if err := d.Store.SaveSettings(settings); err != nil {
		return "", err
	}
	return settings.Theme, nil
}

func (d *Dispatcher) reset() error {
	if d.BeforeReset != nil {
		if err := d.BeforeReset(); err != nil {
			return fmt.Errorf("reset aborted: %w", err)
		}
	}
	return d.Store.ResetHabits()
}
