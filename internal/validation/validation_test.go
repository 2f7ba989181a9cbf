package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/models"
)

func validFields() models.HabitFields {
	return models.HabitFields{
		Name:      "Read",
		Icon:      "📚",
		Frequency: "daily",
		Time:      "07:30",
		Goal:      1,
		Unit:      "pages",
	}
}

func hasType(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateHabitFields_Valid(t *testing.T) {
	v := New()
	result := v.ValidateHabitFields(validFields())
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got: %s", result.FormatReport())
	}
	if err := result.Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidateHabitFields_EmptyTimeAllowed(t *testing.T) {
	f := validFields()
	f.Time = ""
	result := New().ValidateHabitFields(f)
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got: %s", result.FormatReport())
	}
}

func TestValidateHabitFields_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.HabitFields)
		want   ConflictType
	}{
		{"blank name", func(f *models.HabitFields) { f.Name = "   " }, ConflictInvalidField},
		{"missing icon", func(f *models.HabitFields) { f.Icon = "" }, ConflictInvalidField},
		{"unknown frequency", func(f *models.HabitFields) { f.Frequency = "hourly" }, ConflictInvalidField},
		{"zero goal", func(f *models.HabitFields) { f.Goal = 0 }, ConflictInvalidField},
		{"negative goal", func(f *models.HabitFields) { f.Goal = -2 }, ConflictInvalidField},
		{"bad time", func(f *models.HabitFields) { f.Time = "7pm" }, ConflictInvalidTime},
		{"out of range time", func(f *models.HabitFields) { f.Time = "25:00" }, ConflictInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			result := New().ValidateHabitFields(f)
			if !hasType(result, tt.want) {
				t.Fatalf("expected conflict %s, got: %s", tt.want, result.FormatReport())
			}
			if result.Err() == nil {
				t.Error("expected non-nil error")
			}
		})
	}
}

func TestValidateHabits(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Name: "Read", Goal: 1, Completions: map[string]int{"2024-01-01": 1}},
		{ID: "b", Name: " read ", Goal: 1},
		{ID: "c", Name: "Run", Goal: 1, Completions: map[string]int{"2024-13-01": 1, "2024-01-02": -1}},
	}

	result := New().ValidateHabits(habits)
	if len(result.Conflicts) != 3 {
		t.Fatalf("expected 3 conflicts, got %d: %s", len(result.Conflicts), result.FormatReport())
	}
	for _, ct := range []ConflictType{ConflictDuplicateHabitName, ConflictInvalidDayKey, ConflictNegativeAmount} {
		if !hasType(result, ct) {
			t.Errorf("missing conflict %s", ct)
		}
	}
	if result.Conflicts[0].HabitID != "b" {
		t.Errorf("expected duplicate reported on b, got %s", result.Conflicts[0].HabitID)
	}
}

func TestFormatReport(t *testing.T) {
	empty := ValidationResult{}
	if got := empty.FormatReport(); got != "No conflicts detected." {
		t.Errorf("unexpected report: %q", got)
	}

	r := ValidationResult{Conflicts: []Conflict{{Type: ConflictInvalidTime, Description: "time \"x\" must use HH:MM"}}}
	if !strings.Contains(r.FormatReport(), "must use HH:MM") {
		t.Errorf("report missing description: %q", r.FormatReport())
	}
}
