package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitlit"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	ConfigFileName     = "config.toml"
	ReminderLedgerFile = "reminders.json"
	Version            = "v0.3.0"

	// DateFormat is the canonical day key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day hint format (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"

	// Notify constants
	NotificationDurationMs = 5000
	NotifierLockfileName   = "habitlit-notifier.lock"
	TrayAppIdentifier      = "com.julianstephens.habitlit"
	TrayExecutablePrefix   = "habitlit-tray"

	// Change feed channel used by the PostgreSQL trigger
	HabitChangesChannel = "habit_changes"
)

const (
	// Session States
	StateToday SessionState = iota
	StateProgress
	StateHabits
	StateStats
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
	StateConfirmReset
)
