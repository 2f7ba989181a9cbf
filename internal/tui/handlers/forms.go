package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

// NewHabitForm creates the add/edit habit form bound to fm.
func NewHabitForm(fm *state.HabitFormModel, title string) *huh.Form {
	icons := make([]huh.Option[string], 0, len(constants.HabitIcons))
	for _, icon := range constants.HabitIcons {
		icons = append(icons, huh.NewOption(icon, icon))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Icon").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption(models.FrequencyDaily.Label(), string(models.FrequencyDaily)),
					huh.NewOption(models.FrequencyWeekly.Label(), string(models.FrequencyWeekly)),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily goal").
				Value(&fm.Goal).
				Validate(validateGoal),
			huh.NewInput().
				Title("Unit").
				Placeholder(constants.DefaultHabitUnit).
				Value(&fm.Unit),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Description("Optional").
				Value(&fm.Time).
				Validate(validateTime),
		),
	)
}

func validateGoal(s string) error {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("goal must be a number")
	}
	if i < 1 {
		return fmt.Errorf("goal must be at least 1")
	}
	return nil
}

func validateTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	return nil
}

// NewConfirmForm asks a yes/no question bound to confirmed.
func NewConfirmForm(question string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	)
}
