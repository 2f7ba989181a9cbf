package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
)

const documentVersion = 1

// document is the on-disk shape: the habit list and the theme.
type document struct {
	Version int            `json:"version"`
	Theme   models.Theme   `json:"theme"`
	Habits  []models.Habit `json:"habits"`
}

// JSONStore keeps every habit in a single JSON file, rewritten on each change.
type JSONStore struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	doc  *document
	feed *Broadcaster
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
		now:  time.Now,
		feed: NewBroadcaster(),
	}
}

// WithClock replaces the creation-time source, for tests.
func (s *JSONStore) WithClock(now func() time.Time) *JSONStore {
	s.now = now
	return s
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.doc = &document{
		Version: documentVersion,
		Theme:   models.Theme(constants.DefaultTheme),
		Habits:  []models.Habit{},
	}
	return s.save()
}

// Load reads the document. Unreadable content is replaced by an empty habit list and a
// warning is logged; the file itself is only rewritten on the next change.
func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		logger.Warn("Discarding malformed habit document", "path", s.path, "error", err)
		doc = &document{}
	}
	s.doc = normalize(doc)
	return nil
}

func normalize(doc *document) *document {
	doc.Version = documentVersion
	if !doc.Theme.IsValid() {
		doc.Theme = models.Theme(constants.DefaultTheme)
	}
	habits := make([]models.Habit, 0, len(doc.Habits))
	for _, h := range doc.Habits {
		if h.ID == "" {
			logger.Warn("Skipping stored habit without id", "name", h.Name)
			continue
		}
		if h.Completions == nil {
			h.Completions = make(map[string]int)
		}
		for day, amount := range h.Completions {
			if amount <= 0 {
				delete(h.Completions, day)
			}
		}
		habits = append(habits, h)
	}
	SortNewestFirst(habits)
	doc.Habits = habits
	return doc
}

func (s *JSONStore) Close() error {
	s.feed.Close()
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// commit persists the document and, on success, publishes the new list.
func (s *JSONStore) commit() error {
	if err := s.save(); err != nil {
		return err
	}
	s.feed.Publish(s.snapshot())
	return nil
}

func (s *JSONStore) snapshot() []models.Habit {
	out := make([]models.Habit, len(s.doc.Habits))
	for i, h := range s.doc.Habits {
		out[i] = CloneHabit(h)
	}
	return out
}

func (s *JSONStore) find(id string) (int, error) {
	for i, h := range s.doc.Habits {
		if h.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.Settings{}, ErrNotLoaded
	}
	return models.Settings{Theme: s.doc.Theme}, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if !settings.Theme.IsValid() {
		return fmt.Errorf("invalid theme: %q", settings.Theme)
	}
	s.doc.Theme = settings.Theme
	return s.save()
}

func (s *JSONStore) ListHabits() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	return s.snapshot(), nil
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.Habit{}, ErrNotLoaded
	}
	i, err := s.find(id)
	if err != nil {
		return models.Habit{}, err
	}
	return CloneHabit(s.doc.Habits[i]), nil
}

func (s *JSONStore) CreateHabit(fields models.HabitFields) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.Habit{}, ErrNotLoaded
	}

	h := models.Habit{
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Completions: make(map[string]int),
	}
	h.Apply(fields)

	prev := s.doc.Habits
	next := append([]models.Habit{h}, prev...)
	SortNewestFirst(next)
	s.doc.Habits = next
	if err := s.commit(); err != nil {
		s.doc.Habits = prev
		return models.Habit{}, err
	}
	return CloneHabit(h), nil
}

func (s *JSONStore) UpdateHabit(id string, fields models.HabitFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	i, err := s.find(id)
	if err != nil {
		return err
	}

	prev := s.doc.Habits[i]
	next := prev
	next.Apply(fields)
	s.doc.Habits[i] = next
	if err := s.commit(); err != nil {
		s.doc.Habits[i] = prev
		return err
	}
	return nil
}

func (s *JSONStore) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	i, err := s.find(id)
	if err != nil {
		return err
	}

	prev := s.doc.Habits
	next := make([]models.Habit, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	s.doc.Habits = next
	if err := s.commit(); err != nil {
		s.doc.Habits = prev
		return err
	}
	return nil
}

func (s *JSONStore) SetCompletion(id, day string, amount int) error {
	if err := CheckCompletion(day, amount); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	i, err := s.find(id)
	if err != nil {
		return err
	}

	prev := s.doc.Habits[i]
	next := CloneHabit(prev)
	if amount == 0 {
		delete(next.Completions, day)
	} else {
		next.Completions[day] = amount
	}
	s.doc.Habits[i] = next
	if err := s.commit(); err != nil {
		s.doc.Habits[i] = prev
		return err
	}
	return nil
}

func (s *JSONStore) ResetHabits() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	prev := s.doc.Habits
	s.doc.Habits = []models.Habit{}
	if err := s.commit(); err != nil {
		s.doc.Habits = prev
		return err
	}
	return nil
}

func (s *JSONStore) Subscribe(ctx context.Context) (<-chan []models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	return s.feed.Subscribe(ctx, s.snapshot()), nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
