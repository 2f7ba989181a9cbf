// Package storagetest checks a storage.Provider implementation against the shared habit
// store contract.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

// Factory returns a ready (initialized and loaded) empty store. The store is closed by
// the caller's cleanup.
type Factory func(t *testing.T) storage.Provider

// Fields returns valid habit fields named name.
func Fields(name string) models.HabitFields {
	return models.HabitFields{
		Name:      name,
		Icon:      "📚",
		Frequency: string(models.FrequencyDaily),
		Goal:      2,
		Unit:      "pages",
	}
}

// Run executes the contract subtests.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newStore(t)) })
	t.Run("UpdateKeepsHistory", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("SetCompletion", func(t *testing.T) { testSetCompletion(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("Subscribe", func(t *testing.T) { testSubscribe(t, newStore(t)) })
}

func testCreateAndGet(t *testing.T, s storage.Provider) {
	created, err := s.CreateHabit(Fields("  Read  "))
	if err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}
	if created.ID == "" {
		t.Error("CreateHabit() did not assign an id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreateHabit() did not assign a creation time")
	}
	if created.Name != "Read" {
		t.Errorf("name = %q, want trimmed %q", created.Name, "Read")
	}
	if len(created.Completions) != 0 {
		t.Errorf("new habit has completions: %v", created.Completions)
	}

	got, err := s.GetHabit(created.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if got.Name != "Read" || got.Goal != 2 || got.Unit != "pages" || got.Frequency != models.FrequencyDaily {
		t.Errorf("GetHabit() = %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}

	if _, err := s.GetHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
	}
}

func testListNewestFirst(t *testing.T, s storage.Provider) {
	empty, err := s.ListHabits()
	if err != nil {
		t.Fatalf("ListHabits() failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		h, err := s.CreateHabit(Fields(name))
		if err != nil {
			t.Fatalf("CreateHabit(%s) failed: %v", name, err)
		}
		ids = append(ids, h.ID)
		time.Sleep(2 * time.Millisecond)
	}

	habits, err := s.ListHabits()
	if err != nil {
		t.Fatalf("ListHabits() failed: %v", err)
	}
	if len(habits) != 3 {
		t.Fatalf("expected 3 habits, got %d", len(habits))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if habits[i].ID != want {
			t.Errorf("habits[%d] = %s (%s), want %s", i, habits[i].ID, habits[i].Name, want)
		}
	}
}

func testUpdate(t *testing.T, s storage.Provider) {
	h, err := s.CreateHabit(Fields("Read"))
	if err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}
	if err := s.SetCompletion(h.ID, "2024-01-01", 2); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}

	fields := h.Fields()
	fields.Name = "Read more"
	fields.Goal = 5
	fields.Time = "21:00"
	if err := s.UpdateHabit(h.ID, fields); err != nil {
		t.Fatalf("UpdateHabit() failed: %v", err)
	}

	got, err := s.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if got.Name != "Read more" || got.Goal != 5 || got.Time != "21:00" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Amount("2024-01-01") != 2 {
		t.Errorf("update lost completions: %v", got.Completions)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("update changed CreatedAt: %v -> %v", h.CreatedAt, got.CreatedAt)
	}

	if err := s.UpdateHabit("missing", fields); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateHabit(missing) error = %v, want ErrNotFound", err)
	}
}

func testSetCompletion(t *testing.T, s storage.Provider) {
	h, err := s.CreateHabit(Fields("Read"))
	if err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}

	if err := s.SetCompletion(h.ID, "2024-03-10", 2); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}
	if err := s.SetCompletion(h.ID, "2024-03-11", 1); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}
	// Overwrite, not add.
	if err := s.SetCompletion(h.ID, "2024-03-11", 3); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}
	got, _ := s.GetHabit(h.ID)
	if got.Amount("2024-03-10") != 2 || got.Amount("2024-03-11") != 3 {
		t.Errorf("completions = %v", got.Completions)
	}

	if err := s.SetCompletion(h.ID, "2024-03-10", 0); err != nil {
		t.Fatalf("SetCompletion(0) failed: %v", err)
	}
	got, _ = s.GetHabit(h.ID)
	if _, ok := got.Completions["2024-03-10"]; ok {
		t.Errorf("amount 0 should remove the day, got %v", got.Completions)
	}

	if err := s.SetCompletion(h.ID, "2024-03-12", -1); !errors.Is(err, storage.ErrNegativeAmount) {
		t.Errorf("negative amount error = %v, want ErrNegativeAmount", err)
	}
	if err := s.SetCompletion(h.ID, "03/12/2024", 1); !errors.Is(err, storage.ErrInvalidDay) {
		t.Errorf("bad day error = %v, want ErrInvalidDay", err)
	}
	if err := s.SetCompletion("missing", "2024-03-12", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown habit error = %v, want ErrNotFound", err)
	}

	got, _ = s.GetHabit(h.ID)
	if len(got.Completions) != 1 {
		t.Errorf("rejected writes changed state: %v", got.Completions)
	}
}

func testDelete(t *testing.T, s storage.Provider) {
	keep, _ := s.CreateHabit(Fields("keep"))
	drop, _ := s.CreateHabit(Fields("drop"))
	if err := s.SetCompletion(drop.ID, "2024-01-01", 1); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}

	if err := s.DeleteHabit(drop.ID); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	if _, err := s.GetHabit(drop.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteHabit(drop.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteHabit() error = %v, want ErrNotFound", err)
	}

	habits, _ := s.ListHabits()
	if len(habits) != 1 || habits[0].ID != keep.ID {
		t.Errorf("ListHabits() after delete = %+v", habits)
	}
}

func testReset(t *testing.T, s storage.Provider) {
	for _, name := range []string{"a", "b"} {
		h, err := s.CreateHabit(Fields(name))
		if err != nil {
			t.Fatalf("CreateHabit() failed: %v", err)
		}
		if err := s.SetCompletion(h.ID, "2024-01-01", 1); err != nil {
			t.Fatalf("SetCompletion() failed: %v", err)
		}
	}
	if err := s.ResetHabits(); err != nil {
		t.Fatalf("ResetHabits() failed: %v", err)
	}
	habits, err := s.ListHabits()
	if err != nil || len(habits) != 0 {
		t.Errorf("ListHabits() after reset = %d habits, %v", len(habits), err)
	}
	// The store stays usable.
	if _, err := s.CreateHabit(Fields("again")); err != nil {
		t.Errorf("CreateHabit() after reset failed: %v", err)
	}
}

func testSettings(t *testing.T, s storage.Provider) {
	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings.Theme != models.ThemeDark {
		t.Errorf("default theme = %q, want dark", settings.Theme)
	}

	if err := s.SaveSettings(models.Settings{Theme: models.ThemeLight}); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	settings, _ = s.GetSettings()
	if settings.Theme != models.ThemeLight {
		t.Errorf("theme = %q, want light", settings.Theme)
	}
}

func testSubscribe(t *testing.T, s storage.Provider) {
	h, err := s.CreateHabit(Fields("Read"))
	if err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}

	WaitFor(t, ch, func(habits []models.Habit) bool {
		return len(habits) == 1 && habits[0].ID == h.ID
	})

	if err := s.SetCompletion(h.ID, "2024-05-01", 2); err != nil {
		t.Fatalf("SetCompletion() failed: %v", err)
	}
	WaitFor(t, ch, func(habits []models.Habit) bool {
		return len(habits) == 1 && habits[0].Amount("2024-05-01") == 2
	})

	if _, err := s.CreateHabit(Fields("Run")); err != nil {
		t.Fatalf("CreateHabit() failed: %v", err)
	}
	WaitFor(t, ch, func(habits []models.Habit) bool { return len(habits) == 2 })

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

// WaitFor reads snapshots until match accepts one, failing the test after five seconds.
func WaitFor(t *testing.T, ch <-chan []models.Habit, match func([]models.Habit) bool) []models.Habit {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case habits, ok := <-ch:
			if !ok {
				t.Fatal("subscription closed early")
			}
			if match(habits) {
				return habits
			}
		case <-deadline:
			t.Fatal("timed out waiting for habit snapshot")
			return nil
		}
	}
}
