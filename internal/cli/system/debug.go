package system

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/julianstephens/habitlit/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show store path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" optional:"" help:"Habit ID or name. Dumps every habit when omitted."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if cmd.Habit == "" {
		habits, err := ctx.Store.ListHabits()
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		return printJSON(ctx, habits)
	}

	h, err := ctx.ResolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
