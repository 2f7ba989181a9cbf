package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// GetSettings returns the user's settings, defaults when none were saved.
func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.ready(); err != nil {
		return models.Settings{}, err
	}
	var theme string
	err := s.db.QueryRow(`SELECT theme FROM user_settings WHERE user_id = $1`, s.userID).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{Theme: models.Theme(constants.DefaultTheme)}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{Theme: models.Theme(theme)}, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !settings.Theme.IsValid() {
		return fmt.Errorf("invalid theme: %q", settings.Theme)
	}
	_, err := s.db.Exec(`
		INSERT INTO user_settings (user_id, theme) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET theme = EXCLUDED.theme`, s.userID, string(settings.Theme))
	return err
}
