package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, config.DefaultConfig())
	ctx.Out = out
	return ctx, out
}

func TestThemeGetCmd_Default(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&ThemeGetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "dark" {
		t.Errorf("expected dark, got %q", out.String())
	}
}

func TestThemeSetCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&ThemeSetCmd{Theme: "light"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Theme != models.ThemeLight {
		t.Errorf("expected light, got %s", settings.Theme)
	}

	if err := (&ThemeSetCmd{Theme: "sepia"}).Run(ctx); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestThemeToggleCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ThemeToggleCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "light") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if err := (&ThemeToggleCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	settings, _ := ctx.Store.GetSettings()
	if settings.Theme != models.ThemeDark {
		t.Errorf("expected dark after two toggles, got %s", settings.Theme)
	}
}
