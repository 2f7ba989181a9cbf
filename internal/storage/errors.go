package storage

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

var (
	ErrNotFound           = errors.New("habit not found")
	ErrNotLoaded          = errors.New("storage not loaded")
	ErrNotInitialized     = errors.New("storage not initialized, run 'habitlit init' first")
	ErrAlreadyInitialized = errors.New("storage already initialized")
	ErrNegativeAmount     = errors.New("completion amount cannot be negative")
	ErrInvalidDay         = errors.New("invalid day key")
)

// CheckCompletion validates the arguments of SetCompletion.
func CheckCompletion(day string, amount int) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	return nil
}

// SortNewestFirst orders habits by creation time, newest first. Ties keep their order.
func SortNewestFirst(habits []models.Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})
}

// CloneHabit returns a copy that shares no completion map with h.
func CloneHabit(h models.Habit) models.Habit {
	c := h
	c.Completions = make(map[string]int, len(h.Completions))
	for k, v := range h.Completions {
		c.Completions[k] = v
	}
	return c
}
