package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

const habitColumns = `id, name, icon, frequency, time, goal, unit, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var frequency, createdAt string
	if err := row.Scan(&h.ID, &h.Name, &h.Icon, &frequency, &h.Time, &h.Goal, &h.Unit, &createdAt); err != nil {
		return models.Habit{}, err
	}
	h.Frequency = models.Frequency(frequency)

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.CreatedAt = t
	h.Completions = make(map[string]int)
	return h, nil
}

func (s *Store) ListHabits() ([]models.Habit, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	index := make(map[string]int)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.db.Query(`SELECT habit_id, day, amount FROM completions`)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var id, day string
		var amount int
		if err := crows.Scan(&id, &day, &amount); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			habits[i].Completions[day] = amount
		}
	}
	return habits, crows.Err()
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotLoaded
	}

	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.Habit{}, err
	}

	rows, err := s.db.Query(`SELECT day, amount FROM completions WHERE habit_id = ?`, id)
	if err != nil {
		return models.Habit{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var amount int
		if err := rows.Scan(&day, &amount); err != nil {
			return models.Habit{}, err
		}
		h.Completions[day] = amount
	}
	return h, rows.Err()
}

func (s *Store) CreateHabit(fields models.HabitFields) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h := models.Habit{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Completions: make(map[string]int),
	}
	h.Apply(fields)

	_, err := s.db.Exec(`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Icon, string(h.Frequency), h.Time, h.Goal, h.Unit, h.CreatedAt.Format(timeLayout))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}

	s.publish()
	return h, nil
}

func (s *Store) UpdateHabit(id string, fields models.HabitFields) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var h models.Habit
	h.Apply(fields)
	res, err := s.db.Exec(`
		UPDATE habits SET name = ?, icon = ?, frequency = ?, time = ?, goal = ?, unit = ?
		WHERE id = ?`,
		h.Name, h.Icon, string(h.Frequency), h.Time, h.Goal, h.Unit, id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}

	s.publish()
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM completions WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.publish()
	return nil
}

func (s *Store) SetCompletion(id, day string, amount int) error {
	if err := storage.CheckCompletion(day, amount); err != nil {
		return err
	}
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM habits WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	if amount == 0 {
		_, err = s.db.Exec(`DELETE FROM completions WHERE habit_id = ? AND day = ?`, id, day)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO completions (habit_id, day, amount) VALUES (?, ?, ?)
			ON CONFLICT(habit_id, day) DO UPDATE SET amount = excluded.amount`, id, day, amount)
	}
	if err != nil {
		return fmt.Errorf("failed to set completion: %w", err)
	}

	s.publish()
	return nil
}

func (s *Store) ResetHabits() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.publish()
	return nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}
