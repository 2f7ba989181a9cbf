package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing storage before initialization."`
	Source string `help:"Local sqlite or json store to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			return err
		}
		ctx.Printf("Storage already initialized at: %s\n", ctx.Store.GetConfigPath())
		if err := ctx.Store.Load(); err != nil {
			return err
		}
	} else {
		ctx.Printf("Initialized habitlit storage at: %s\n", ctx.Store.GetConfigPath())
	}

	if ctx.ConfigPath != "" && !config.Exists(ctx.ConfigPath) {
		if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
	}

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first to release file locks
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		ctx.Printf("Deleted existing storage at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

// OpenLocal returns the store for a local path, chosen by file extension.
func OpenLocal(path string) storage.Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path)
	}
	return sqlite.NewStore(path)
}

// migrateData copies settings, habits and their completions. Habits get new IDs in the
// destination.
func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	sourceStore := OpenLocal(sourcePath)
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer sourceStore.Close()

	ctx.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating habits...")
	habits, err := sourceStore.ListHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	entries := 0
	// Oldest first so the destination keeps the newest-first order
	for i := len(habits) - 1; i >= 0; i-- {
		h := habits[i]
		created, err := ctx.Store.CreateHabit(h.Fields())
		if err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.Name, err)
		}
		for day, amount := range h.Completions {
			if amount <= 0 {
				continue
			}
			if err := ctx.Store.SetCompletion(created.ID, day, amount); err != nil {
				return fmt.Errorf("failed to copy %s for habit %s: %w", day, h.Name, err)
			}
			entries++
		}
	}
	ctx.Printf("    Migrated %d habits and %d completions\n", len(habits), entries)

	return nil
}
