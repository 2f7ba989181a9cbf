package postgres

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
	var frequency string
	if err := row.Scan(&h.ID, &h.Name, &h.Icon, &frequency, &h.Time, &h.Goal, &h.Unit, &h.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	h.Frequency = models.Frequency(frequency)
	h.CreatedAt = h.CreatedAt.UTC()
	h.Completions = make(map[string]int)
	return h, nil
}

func (s *Store) ListHabits() ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT `+habitColumns+` FROM habits
		WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`, s.userID)
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

	crows, err := s.db.Query(`
		SELECT c.habit_id, c.day, c.amount FROM completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = $1`, s.userID)
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
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}

	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits
		WHERE id = $1 AND user_id = $2`, id, s.userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.Habit{}, err
	}

	rows, err := s.db.Query(`SELECT day, amount FROM completions WHERE habit_id = $1`, id)
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
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID: uuid.NewString(),
		// timestamptz keeps microseconds
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
		Completions: make(map[string]int),
	}
	h.Apply(fields)

	_, err := s.db.Exec(`INSERT INTO habits (user_id, `+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.userID, h.ID, h.Name, h.Icon, string(h.Frequency), h.Time, h.Goal, h.Unit, h.CreatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}
	return h, nil
}

func (s *Store) UpdateHabit(id string, fields models.HabitFields) error {
	if err := s.ready(); err != nil {
		return err
	}

	var h models.Habit
	h.Apply(fields)
	res, err := s.db.Exec(`
		UPDATE habits SET name = $1, icon = $2, frequency = $3, time = $4, goal = $5, unit = $6
		WHERE id = $7 AND user_id = $8`,
		h.Name, h.Icon, string(h.Frequency), h.Time, h.Goal, h.Unit, id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(res, id)
}

func (s *Store) DeleteHabit(id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	// completions go with the habit (ON DELETE CASCADE)
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(res, id)
}

func (s *Store) SetCompletion(id, day string, amount int) error {
	if err := storage.CheckCompletion(day, amount); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM habits WHERE id = $1 AND user_id = $2`, id, s.userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	if amount == 0 {
		_, err = s.db.Exec(`DELETE FROM completions WHERE habit_id = $1 AND day = $2`, id, day)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO completions (habit_id, day, amount) VALUES ($1, $2, $3)
			ON CONFLICT (habit_id, day) DO UPDATE SET amount = EXCLUDED.amount`, id, day, amount)
	}
	if err != nil {
		return fmt.Errorf("failed to set completion: %w", err)
	}
	return nil
}

// ResetHabits deletes every habit of the current user.
func (s *Store) ResetHabits() error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM habits WHERE user_id = $1`, s.userID)
	return err
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
