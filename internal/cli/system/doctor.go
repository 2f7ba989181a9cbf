package system

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
	"github.com/julianstephens/habitlit/internal/validation"
	"github.com/julianstephens/habitlit/migrations"
)

type DoctorCmd struct{}

// check is one diagnostic. needsStore checks are skipped when the store is unreachable and
// warnOnly checks never fail the run.
type check struct {
	name       string
	needsStore bool
	warnOnly   bool
	run        func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsStore: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Data validation", needsStore: true, run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Completion integrity", needsStore: true, run: checkCompletionIntegrity},
	{name: "Config", run: checkConfig},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		reachable = false
	} else {
		ctx.Printf("✓ Store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if db, ok := sqliteDB(ctx); ok {
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// sqliteDB returns the connection of a sqlite store. ok is false for other stores.
func sqliteDB(ctx *cli.Context) (*sql.DB, bool) {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, false
	}
	return s.GetDB(), true
}

func versions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	db, isSQLite := sqliteDB(ctx)
	if !isSQLite {
		return 0, 0, false, nil
	}
	if db == nil {
		return 0, 0, true, errors.New("database connection is nil")
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return 0, 0, true, err
	}
	runner := migration.NewRunner(db, sub, migration.SQLite)

	current, err = runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err = runner.GetLatestVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := versions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := versions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.SupportsBackup() {
		return errors.New("backups are only available for local stores")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'habitlit backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	habits, err := ctx.Store.ListHabits()
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}

	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true
	}

	result := validation.New().ValidateHabits(habits)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found, run 'habitlit validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

func checkCompletionIntegrity(ctx *cli.Context) error {
	db, ok := sqliteDB(ctx)
	if !ok {
		return nil
	}
	if db == nil {
		return errors.New("database connection is nil")
	}

	queries := []struct {
		what  string
		query string
	}{
		{"orphaned completions (referencing non-existent habits)", `
			SELECT COUNT(*)
			FROM completions c
			LEFT JOIN habits h ON c.habit_id = h.id
			WHERE h.id IS NULL`},
		{"completions with invalid day format", `
			SELECT COUNT(*)
			FROM completions
			WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'`},
		{"completions with a non-positive amount", `
			SELECT COUNT(*) FROM completions WHERE amount <= 0`},
		{"habits with corrupted timestamps", `
			SELECT COUNT(*) FROM habits WHERE created_at = ''`},
	}
	for _, q := range queries {
		var n int
		if err := db.QueryRow(q.query).Scan(&n); err != nil {
			return fmt.Errorf("failed to check %s: %w", q.what, err)
		}
		if n > 0 {
			return fmt.Errorf("found %d %s", n, q.what)
		}
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	cfg := ctx.Config
	return cfg.Validate()
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
