package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

func TestInitCmd_FreshStore(t *testing.T) {
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "habitlit.db"))
	t.Cleanup(func() { store.Close() })
	ctx, out := newContext(store)
	ctx.ConfigPath = filepath.Join(dir, "config.toml")

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized habitlit storage at:") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if !config.Exists(ctx.ConfigPath) {
		t.Error("expected default config to be written")
	}
	if _, err := store.ListHabits(); err != nil {
		t.Errorf("store not usable after init: %v", err)
	}
}

func TestInitCmd_AlreadyInitialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitlit.json")
	first := storage.NewJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatal(err)
	}
	first.Close()

	store := storage.NewJSONStore(path)
	t.Cleanup(func() { store.Close() })
	ctx, out := newContext(store)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init on existing store should succeed: %v", err)
	}
	if !strings.Contains(out.String(), "Storage already initialized") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, out, store := setupSQLite(t)
	if _, err := store.CreateHabit(storagetest.Fields("Read")); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing storage") {
		t.Errorf("unexpected output: %q", out.String())
	}
	habits, err := store.ListHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 {
		t.Errorf("expected empty store after forced init, got %d habits", len(habits))
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, _, store := setupSQLite(t)

	err := (&InitCmd{Force: true, Source: store.GetConfigPath()}).Run(ctx)
	if err == nil {
		t.Fatal("expected error when source and destination match")
	}
	if _, statErr := os.Stat(store.GetConfigPath()); statErr != nil {
		t.Errorf("store file should be untouched: %v", statErr)
	}
}

func TestInitCmd_MigratesSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "old.json")
	src := storage.NewJSONStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	h, err := src.CreateHabit(storagetest.Fields("Read"))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.SetCompletion(h.ID, "2024-05-19", 2); err != nil {
		t.Fatal(err)
	}
	if err := src.SetCompletion(h.ID, "2024-05-20", 1); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveSettings(models.Settings{Theme: models.ThemeLight}); err != nil {
		t.Fatal(err)
	}
	src.Close()

	dest := sqlite.NewStore(filepath.Join(dir, "habitlit.db"))
	t.Cleanup(func() { dest.Close() })
	ctx, out := newContext(dest)

	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}
	if !strings.Contains(out.String(), "Migrated 1 habits and 2 completions") {
		t.Errorf("unexpected output: %q", out.String())
	}

	habits, err := dest.ListHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	if habits[0].Name != "Read" || habits[0].Amount("2024-05-19") != 2 || habits[0].Amount("2024-05-20") != 1 {
		t.Errorf("habit not copied: %+v", habits[0])
	}
	settings, err := dest.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Theme != models.ThemeLight {
		t.Errorf("theme = %q, want light", settings.Theme)
	}
}

func TestOpenLocal(t *testing.T) {
	if _, ok := OpenLocal("a/b/habits.JSON").(*storage.JSONStore); !ok {
		t.Error("expected JSON store for .json path")
	}
	if _, ok := OpenLocal("a/b/habitlit.db").(*sqlite.Store); !ok {
		t.Error("expected sqlite store for .db path")
	}
}
