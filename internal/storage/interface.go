package storage

import (
	"context"

	"github.com/julianstephens/habitlit/internal/models"
)

// Provider is the habit store. Local and remote variants share this contract; callers
// never learn which one they hold.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	ListHabits() ([]models.Habit, error) // newest first
	GetHabit(id string) (models.Habit, error)
	CreateHabit(fields models.HabitFields) (models.Habit, error)
	UpdateHabit(id string, fields models.HabitFields) error
	DeleteHabit(id string) error
	// SetCompletion records amount for day. An amount of 0 removes the day.
	SetCompletion(id, day string, amount int) error
	ResetHabits() error

	// Subscribe delivers the current habit list and then a fresh list after every change
	// until ctx is done, at which point the channel is closed. A slow reader only sees the
	// latest list.
	Subscribe(ctx context.Context) (<-chan []models.Habit, error)

	// Utils
	GetConfigPath() string
}
