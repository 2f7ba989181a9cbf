package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/auth"
	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
	// ConfigPath is where init writes the default config file. Empty skips it.
	ConfigPath string
	// Auth is set when the remote store is selected.
	Auth *auth.Service
	Now  func() time.Time
	Out  io.Writer
	In   io.Reader
}

// NewContext fills the clock and standard streams.
func NewContext(store storage.Provider, cfg config.Config) *Context {
	return &Context{
		Store:  store,
		Config: cfg,
		Now:    time.Now,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.Writer(), args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Today returns the day key of the current local day.
func (c *Context) Today() string {
	return stats.DayKey(c.Clock())
}

// ConsistencyWindow returns the configured window, falling back to the default.
func (c *Context) ConsistencyWindow() int {
	if c.Config.Stats.ConsistencyWindow > 0 {
		return c.Config.Stats.ConsistencyWindow
	}
	return stats.DefaultWindow
}

// Confirm asks a yes/no question on Out and reads the answer from In. Anything but y/yes
// is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SupportsBackup reports whether the store is a local file the backup manager can copy.
func (c *Context) SupportsBackup() bool {
	path := c.Store.GetConfigPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.SupportsBackup() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// BackupBeforeReset returns a hook that snapshots a local store before every habit is
// deleted. Remote stores get nil.
func (c *Context) BackupBeforeReset() func() error {
	if !c.SupportsBackup() {
		return nil
	}
	return func() error {
		path, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup()
		if err != nil {
			return fmt.Errorf("backup before reset failed: %w", err)
		}
		logger.Info("Backup created before reset", "path", path)
		return nil
	}
}

// ResolveHabit finds a habit by ID, then by case-insensitive name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if h, err := c.Store.GetHabit(ref); err == nil {
		return h, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	habits, err := c.Store.ListHabits()
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are named %q, use the ID instead", len(matches), ref)
	}
}

// ParseDay accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func (c *Context) ParseDay(day string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return stats.DayKey(stats.AddDays(c.Clock(), -1)), nil
	}
	if _, err := stats.ParseDayKey(day, time.Local); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}
	return day, nil
}
