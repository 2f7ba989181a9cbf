package constants

import "time"

const (
	// Statistics
	StreakScanLimit          = 365
	DefaultConsistencyWindow = 30
	YearWindow               = 365
	WeekdayAverageWeeks      = 4
	TopHabitsLimit           = 5
	StreakTierFire           = 30
	StreakTierSpark          = 7

	// Appearance
	ThemeLight   = "light"
	ThemeDark    = "dark"
	DefaultTheme = ThemeDark

	// Habit defaults
	DefaultHabitGoal      = 1
	DefaultHabitUnit      = "times"
	DefaultHabitFrequency = "daily"
	DefaultHabitIcon      = "✅"

	// Auth
	MinPasswordLength  = 6
	DefaultSessionTTL  = 30 * 24 * time.Hour
	PasswordResetTTL   = time.Hour
	DefaultJWTIssuer   = "habitlit"
	DefaultStorageKind = "sqlite"
)

// HabitIcons is the fixed set offered by the add/edit forms.
var HabitIcons = []string{"✅", "💧", "🏃", "📚", "🧘", "🥗", "💤", "✍️", "🎸", "💊"}
