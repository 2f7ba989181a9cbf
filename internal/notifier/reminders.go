package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
)

// Due returns the habits whose reminder time has passed today and that are not yet
// completed today. Habits without a time, or with an unparseable one, are never due.
func Due(habits []models.Habit, now time.Time) []models.Habit {
	today := stats.DayKey(now)
	var due []models.Habit
	for _, h := range habits {
		at, ok := reminderTime(h, now)
		if !ok || now.Before(at) {
			continue
		}
		if stats.IsDayCompleted(h, today) {
			continue
		}
		due = append(due, h)
	}
	return due
}

func reminderTime(h models.Habit, now time.Time) (time.Time, bool) {
	if h.Time == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(constants.TimeFormat, h.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), true
}

// Message renders the reminder text for h.
func Message(h models.Habit, now time.Time) string {
	left := h.Goal - h.Amount(stats.DayKey(now))
	if left < h.Goal && left > 0 {
		return fmt.Sprintf("%s %s: %d %s to go", h.Icon, h.Name, left, h.Unit)
	}
	return fmt.Sprintf("%s Time for %s (%d %s)", h.Icon, h.Name, h.Goal, h.Unit)
}

// Remind sends one notification per due habit not yet recorded in ledger for today and
// returns how many were delivered. Delivered habits are marked in ledger. A nil ledger
// reminds every due habit. Delivery stops at the first failure.
func Remind(ctx context.Context, sender Sender, habits []models.Habit, now time.Time, ledger *Ledger) (int, error) {
	today := stats.DayKey(now)
	sent := 0
	for _, h := range Due(habits, now) {
		if ledger.Notified(h.ID, today) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := sender.Notify(ctx, Message(h, now)); err != nil {
			return sent, fmt.Errorf("failed to notify for %q: %w", h.Name, err)
		}
		logger.Debug("Reminder sent", "habit", h.Name)
		ledger.Mark(h.ID, today)
		sent++
	}
	return sent, nil
}
