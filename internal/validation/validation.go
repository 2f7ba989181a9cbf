package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gookit/validate"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidField       ConflictType = "invalid_field"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidDayKey      ConflictType = "invalid_day_key"
	ConflictNegativeAmount     ConflictType = "negative_amount"
)

// Conflict represents a single problem found in habit input or stored data
type Conflict struct {
	Type        ConflictType
	Field       string
	Description string
	HabitID     string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Err collapses the conflicts into a single error, nil when there are none.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	msgs := make([]string, 0, len(vr.Conflicts))
	for _, c := range vr.Conflicts {
		msgs = append(msgs, c.Description)
	}
	return fmt.Errorf("invalid habit: %s", strings.Join(msgs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabitFields checks user input for a create or update.
func (v *Validator) ValidateHabitFields(fields models.HabitFields) ValidationResult {
	var result ValidationResult

	fields.Name = strings.TrimSpace(fields.Name)
	sv := validate.Struct(&fields)
	sv.StopOnError = false
	if !sv.Validate() {
		all := sv.Errors.All()
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, msg := range sortedMessages(all[name]) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidField,
					Field:       name,
					Description: msg,
				})
			}
		}
	}

	if fields.Time != "" {
		if _, err := time.Parse(constants.TimeFormat, fields.Time); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Field:       "time",
				Description: fmt.Sprintf("time %q must use HH:MM", fields.Time),
			})
		}
	}

	return result
}

// ValidateHabits checks stored habits for problems that the stores tolerate but users
// should hear about: duplicate names, malformed day keys and negative amounts.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	var result ValidationResult

	seen := make(map[string]string)
	for _, h := range habits {
		lower := strings.ToLower(strings.TrimSpace(h.Name))
		if other, ok := seen[lower]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				HabitID:     h.ID,
				Description: fmt.Sprintf("habit name %q is used by %s and %s", h.Name, other, h.ID),
			})
		} else {
			seen[lower] = h.ID
		}

		days := make([]string, 0, len(h.Completions))
		for day := range h.Completions {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			if _, err := time.Parse(constants.DateFormat, day); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDayKey,
					HabitID:     h.ID,
					Description: fmt.Sprintf("habit %q has malformed day key %q", h.Name, day),
				})
			}
			if h.Completions[day] < 0 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictNegativeAmount,
					HabitID:     h.ID,
					Description: fmt.Sprintf("habit %q has negative amount on %s", h.Name, day),
				})
			}
		}
	}

	return result
}

func sortedMessages(ms map[string]string) []string {
	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, ms[k])
	}
	return out
}
