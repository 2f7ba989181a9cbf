package habits

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitlit.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store, config.DefaultConfig())
	ctx.Now = func() time.Time { return fixedNow }
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return ctx, out
}

func addHabit(t *testing.T, ctx *cli.Context, name string) models.Habit {
	t.Helper()
	h, err := ctx.Store.CreateHabit(storagetest.Fields(name))
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &HabitAddCmd{Name: "Drink water", Icon: "💧", Frequency: "daily", Goal: 8, Unit: "glasses"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added habit: 💧 Drink water") {
		t.Errorf("unexpected output: %q", out.String())
	}

	habits, _ := ctx.Store.ListHabits()
	if len(habits) != 1 || habits[0].Goal != 8 {
		t.Fatalf("expected one habit with goal 8, got %+v", habits)
	}
}

func TestHabitAddCmd_Invalid(t *testing.T) {
	ctx, _ := setupTestContext(t)

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"zero goal", HabitAddCmd{Name: "Run", Icon: "🏃", Frequency: "daily", Goal: 0}},
		{"bad time", HabitAddCmd{Name: "Run", Icon: "🏃", Frequency: "daily", Goal: 1, Time: "noon"}},
		{"bad frequency", HabitAddCmd{Name: "Run", Icon: "🏃", Frequency: "hourly", Goal: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}

	habits, _ := ctx.Store.ListHabits()
	if len(habits) != 0 {
		t.Errorf("invalid habits were stored: %+v", habits)
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	h := addHabit(t, ctx, "Read")

	goal := 10
	name := "Read more"
	cmd := &HabitEditCmd{Habit: "read", Name: &name, Goal: &goal}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got, err := ctx.Store.GetHabit(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Read more" || got.Goal != 10 || got.Unit != "pages" {
		t.Errorf("unexpected habit after edit: %+v", got)
	}

	out.Reset()
	if err := (&HabitEditCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitToggleCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	h := addHabit(t, ctx, "Read")

	cmd := &HabitToggleCmd{Habit: h.ID, Date: "today"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	got, _ := ctx.Store.GetHabit(h.ID)
	if got.Amount("2024-03-15") != 2 {
		t.Errorf("expected goal amount recorded, got %v", got.Completions)
	}
	if !strings.Contains(out.String(), "done for 2024-03-15") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	got, _ = ctx.Store.GetHabit(h.ID)
	if _, ok := got.Completions["2024-03-15"]; ok {
		t.Errorf("expected day cleared, got %v", got.Completions)
	}

	yesterday := &HabitToggleCmd{Habit: "Read", Date: "yesterday"}
	if err := yesterday.Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = ctx.Store.GetHabit(h.ID)
	if got.Amount("2024-03-14") != 2 {
		t.Errorf("expected yesterday recorded, got %v", got.Completions)
	}

	if err := (&HabitToggleCmd{Habit: h.ID, Date: "03/14/2024"}).Run(ctx); err == nil {
		t.Error("expected invalid date error")
	}
}

func TestHabitSetCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	h := addHabit(t, ctx, "Read")

	if err := (&HabitSetCmd{Habit: h.ID, Amount: 1, Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "(partial)") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if err := (&HabitSetCmd{Habit: h.ID, Amount: -1}).Run(ctx); err == nil {
		t.Error("expected negative amount error")
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	h := addHabit(t, ctx, "Read")

	ctx.In = strings.NewReader("n\n")
	if err := (&HabitDeleteCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("expected cancellation, got %q", out.String())
	}
	if _, err := ctx.Store.GetHabit(h.ID); err != nil {
		t.Fatalf("habit should still exist: %v", err)
	}

	ctx.In = strings.NewReader("y\n")
	if err := (&HabitDeleteCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.GetHabit(h.ID); err == nil {
		t.Error("habit should be deleted")
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	h := addHabit(t, ctx, "Read")
	if err := ctx.Store.SetCompletion(h.ID, "2024-03-15", 2); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	line := out.String()
	if !strings.HasPrefix(line, "✓ 📚 Read") || !strings.Contains(line, "streak 1") {
		t.Errorf("unexpected list line: %q", line)
	}
}

func TestHabitShowCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Read")

	if err := (&HabitShowCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Read") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if err := (&HabitShowCmd{Habit: "Missing"}).Run(ctx); err == nil {
		t.Error("expected not found error")
	}
}

func TestResolveHabitAmbiguous(t *testing.T) {
	ctx, _ := setupTestContext(t)
	addHabit(t, ctx, "Read")
	addHabit(t, ctx, "read")

	if _, err := ctx.ResolveHabit("READ"); err == nil || !strings.Contains(err.Error(), "use the ID") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Read")

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if out.Len() == 0 {
		t.Error("expected dashboard output")
	}
}

func TestResetCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Read")

	ctx.In = strings.NewReader("no\n")
	if err := (&ResetCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if habits, _ := ctx.Store.ListHabits(); len(habits) != 1 {
		t.Fatalf("reset should have been cancelled")
	}

	if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if habits, _ := ctx.Store.ListHabits(); len(habits) != 0 {
		t.Errorf("expected no habits after reset, got %d", len(habits))
	}
	if !strings.Contains(out.String(), "All habits deleted") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
