package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlit/internal/auth"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/account"
	"github.com/julianstephens/habitlit/internal/cli/backups"
	"github.com/julianstephens/habitlit/internal/cli/habits"
	"github.com/julianstephens/habitlit/internal/cli/settings"
	"github.com/julianstephens/habitlit/internal/cli/system"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Verbose bool   `name:"debug" help:"Enable debug logging."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitlit storage."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd    `cmd:"" help:"Manage habits and check-ins."`
	Stats    habits.StatsCmd    `cmd:"" help:"Show statistics across all habits."`
	Reset    habits.ResetCmd    `cmd:"" help:"Delete every habit."`
	Theme    settings.ThemeCmd  `cmd:"" help:"Show or change the theme."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored habits for problems."`
	Remind   system.RemindCmd   `cmd:"" help:"Send reminders for habits that are due. Each habit is reminded at most once per day."`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage local store backups."`
	Account account.AccountCmd `cmd:"" help:"Manage your remote store account."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits, streaks and consistency."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"config_path":  config.ConfigPath(),
			"default_icon": constants.DefaultHabitIcon,
			"default_unit": constants.DefaultHabitUnit,
		},
	)

	command := ctx.Command()

	cfg, err := config.LoadFrom(CLI.Config, os.Environ())
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Verbose {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: config.ConfigDir(),
		Quiet:     command == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// Init loads on its own; keyring commands never touch the store
	load := command != "init" && !strings.HasPrefix(command, "keyring")

	appCtx, err := newContext(cfg, load)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer appCtx.Store.Close()

	if command == "init" {
		appCtx.ConfigPath = CLI.Config
	}

	if load {
		if err := appCtx.Store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		apperrors.Fatal(err)
	}
}

// newContext selects the habit store from cfg. The remote store is scoped to the
// signed-in user when a valid session exists.
func newContext(cfg config.Config, load bool) (*cli.Context, error) {
	switch cfg.Storage.Kind {
	case "json":
		return cli.NewContext(storage.NewJSONStore(cfg.StoragePath()), cfg), nil
	case "postgres":
		return newRemoteContext(cfg, load)
	default:
		return cli.NewContext(system.OpenLocal(cfg.StoragePath()), cfg), nil
	}
}

func newRemoteContext(cfg config.Config, load bool) (*cli.Context, error) {
	if _, err := postgres.ValidateConnString(cfg.Storage.DSN); err != nil {
		return nil, fmt.Errorf("storage.dsn: %w (store the full string with 'habitlit keyring set')", err)
	}
	dsn := cfg.Storage.DSN
	if stored, err := keyring.GetConnectionString(); err == nil {
		dsn = stored
	} else if !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Keyring unavailable, using configured dsn", "error", err)
	}

	base := postgres.New(dsn)
	// Accounts use the base connection and the user-scoped copy shares it, so it must be
	// open before WithUser.
	if load {
		if err := base.Load(); err != nil {
			return nil, err
		}
	}
	svc := auth.New(base.Accounts(), auth.Config{
		Secret:     []byte(cfg.Auth.JWTSecret),
		Issuer:     cfg.Auth.Issuer,
		SessionTTL: cfg.Auth.SessionTTL,
	})

	var store storage.Provider = base
	if session, err := svc.Current(); err == nil {
		store = base.WithUser(session.UserID)
		logger.Debug("Using remote store", "user", session.Email)
	} else {
		logger.Debug("No active session", "error", err)
	}

	appCtx := cli.NewContext(store, cfg)
	appCtx.Auth = svc
	return appCtx, nil
}
