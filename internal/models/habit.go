package models

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a habit is meant to be practiced
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// Label returns the display name used in listings.
func (f Frequency) Label() string {
	switch f {
	case FrequencyWeekly:
		return "Weekly"
	default:
		return "Daily"
	}
}

func ParseFrequency(input string) (Frequency, error) {
	f := Frequency(strings.TrimSpace(strings.ToLower(input)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid frequency: %q (expected daily or weekly)", input)
	}
	return f, nil
}

// Habit represents a recurring goal tracked per calendar day
type Habit struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Frequency   Frequency      `json:"frequency"`
	Time        string         `json:"time,omitempty"` // HH:MM hint, optional
	Goal        int            `json:"goal"`
	Unit        string         `json:"unit"`
	CreatedAt   time.Time      `json:"createdAt"`
	Completions map[string]int `json:"completions"` // YYYY-MM-DD -> amount
}

// Fields returns the editable part of the habit.
func (h Habit) Fields() HabitFields {
	return HabitFields{
		Name:      h.Name,
		Icon:      h.Icon,
		Frequency: string(h.Frequency),
		Time:      h.Time,
		Goal:      h.Goal,
		Unit:      h.Unit,
	}
}

// Apply copies edited fields onto the habit. ID, CreatedAt and Completions are untouched.
func (h *Habit) Apply(fields HabitFields) {
	h.Name = strings.TrimSpace(fields.Name)
	h.Icon = fields.Icon
	h.Frequency = Frequency(fields.Frequency)
	h.Time = fields.Time
	h.Goal = fields.Goal
	h.Unit = fields.Unit
}

// Amount returns the recorded amount for a day key, 0 when absent.
func (h Habit) Amount(day string) int {
	if h.Completions == nil {
		return 0
	}
	return h.Completions[day]
}

// HabitFields holds the user-editable habit attributes used by create and update
type HabitFields struct {
	Name      string `json:"name" validate:"required"`
	Icon      string `json:"icon" validate:"required"`
	Frequency string `json:"frequency" validate:"required|in:daily,weekly"`
	Time      string `json:"time"`
	Goal      int    `json:"goal" validate:"required|min:1"`
	Unit      string `json:"unit"`
}
