package notifier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Ledger remembers the day each habit was last reminded, keyed by habit ID.
type Ledger struct {
	path string
	Sent map[string]string `json:"sent"`
}

// LoadLedger reads the ledger at path. A missing file yields an empty ledger.
func LoadLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, Sent: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reminder ledger: %w", err)
	}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse reminder ledger: %w", err)
	}
	if l.Sent == nil {
		l.Sent = map[string]string{}
	}
	return l, nil
}

// Notified reports whether habitID was already reminded on day.
func (l *Ledger) Notified(habitID, day string) bool {
	return l != nil && l.Sent[habitID] == day
}

func (l *Ledger) Mark(habitID, day string) {
	if l != nil {
		l.Sent[habitID] = day
	}
}

// Save writes the entries for day and drops older ones.
func (l *Ledger) Save(day string) error {
	for id, d := range l.Sent {
		if d != day {
			delete(l.Sent, id)
		}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	return os.WriteFile(l.path, data, 0600)
}
