package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.Local)

func newContext(store storage.Provider) (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, config.DefaultConfig())
	ctx.Now = func() time.Time { return fixedNow }
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return ctx, out
}

func setupSQLite(t *testing.T) (*cli.Context, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitlit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx, out := newContext(store)
	return ctx, out, store
}

func setupJSON(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitlit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return newContext(store)
}
