package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

func (s *Store) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, storage.ErrNotLoaded
	}
	var theme string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = 'theme'").Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{Theme: models.Theme(theme)}, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	if !settings.Theme.IsValid() {
		return fmt.Errorf("invalid theme: %q", settings.Theme)
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ('theme', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, string(settings.Theme))
	return err
}
