package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/stats"
	"github.com/julianstephens/habitlit/internal/tui/components/progress"
	"github.com/julianstephens/habitlit/internal/tui/state"
	"github.com/julianstephens/habitlit/internal/tui/theme"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with today's status."`
	Show   HabitShowCmd   `cmd:"" help:"Show weekly or yearly progress of a habit."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit done or not done for a day."`
	Set    HabitSetCmd    `cmd:"" help:"Record an exact amount for a day."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Icon      string `help:"Icon shown next to the name." default:"${default_icon}"`
	Frequency string `help:"daily or weekly." default:"daily" enum:"daily,weekly"`
	Time      string `help:"Reminder time (HH:MM)."`
	Goal      int    `help:"Daily goal amount." default:"1"`
	Unit      string `help:"Unit of the goal amount." default:"${default_unit}"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	res, err := state.NewDispatcher(ctx.Store).Dispatch(state.AddHabit{Fields: models.HabitFields{
		Name:      c.Name,
		Icon:      c.Icon,
		Frequency: c.Frequency,
		Time:      c.Time,
		Goal:      c.Goal,
		Unit:      c.Unit,
	}})
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s %s (%s)\n", res.Habit.Icon, res.Habit.Name, res.Habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit     string  `arg:"" help:"Habit ID or name."`
	Name      *string `help:"New name."`
	Icon      *string `help:"New icon."`
	Frequency *string `help:"daily or weekly."`
	Time      *string `help:"Reminder time (HH:MM), empty to clear."`
	Goal      *int    `help:"Daily goal amount."`
	Unit      *string `help:"Unit of the goal amount."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	fields := h.Fields()
	updated := false
	if c.Name != nil {
		fields.Name = *c.Name
		updated = true
	}
	if c.Icon != nil {
		fields.Icon = *c.Icon
		updated = true
	}
	if c.Frequency != nil {
		fields.Frequency = strings.ToLower(*c.Frequency)
		updated = true
	}
	if c.Time != nil {
		fields.Time = *c.Time
		updated = true
	}
	if c.Goal != nil {
		fields.Goal = *c.Goal
		updated = true
	}
	if c.Unit != nil {
		fields.Unit = *c.Unit
		updated = true
	}
	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	res, err := state.NewDispatcher(ctx.Store).Dispatch(state.EditHabit{HabitID: h.ID, Fields: fields})
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s %s\n", res.Habit.Icon, res.Habit.Name)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	now := ctx.Clock()
	today := stats.DayKey(now)
	window := ctx.ConsistencyWindow()
	for _, h := range habits {
		s := stats.Summarize(h, now, window)
		mark := "○"
		switch stats.DayStatus(h, today) {
		case stats.StatusCompleted:
			mark = "✓"
		case stats.StatusPartial:
			mark = "◐"
		}
		ctx.Printf("%s %s %-20s %d/%d %-8s streak %-3d %3d%%  %s\n",
			mark, h.Icon, h.Name, h.Amount(today), h.Goal, h.Unit, s.Streak, s.Consistency, h.ID)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Year  bool   `help:"Show the yearly calendar instead of the week."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ctx.Println(progress.View(h, ctx.Clock(), c.Year, theme.For(settings.Theme)))
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Day in YYYY-MM-DD format, 'today' or 'yesterday'." default:"today"`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	res, err := state.NewDispatcher(ctx.Store).Dispatch(state.ToggleCompletion{HabitID: h.ID, DayKey: day})
	if err != nil {
		return err
	}
	if res.Amount > 0 {
		ctx.Printf("✓ %s done for %s (%d %s)\n", h.Name, day, res.Amount, h.Unit)
	} else {
		ctx.Printf("%s cleared for %s\n", h.Name, day)
	}
	return nil
}

type HabitSetCmd struct {
	Habit  string `arg:"" help:"Habit ID or name."`
	Amount int    `arg:"" help:"Amount to record; 0 clears the day."`
	Date   string `help:"Day in YYYY-MM-DD format, 'today' or 'yesterday'." default:"today"`
}

func (c *HabitSetCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetCompletion(h.ID, day, c.Amount); err != nil {
		return err
	}
	h.Completions = map[string]int{day: c.Amount}
	ctx.Printf("%s: %d/%d %s on %s (%s)\n", h.Name, c.Amount, h.Goal, h.Unit, day, stats.DayStatus(h, day))
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %s %s and its whole history?", h.Icon, h.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}
	if _, err := state.NewDispatcher(ctx.Store).Dispatch(state.DeleteHabit{HabitID: h.ID}); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	return nil
}
