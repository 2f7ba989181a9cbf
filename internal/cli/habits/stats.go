package habits

import (
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/tui/components/dashboard"
	"github.com/julianstephens/habitlit/internal/tui/state"
	"github.com/julianstephens/habitlit/internal/tui/theme"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits()
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	app := state.NewApp(ctx.Clock(), ctx.ConsistencyWindow(), settings.Theme)
	app.SetHabits(habits)
	ctx.Println(dashboard.View(app.Dashboard(), theme.For(app.Theme)))
	return nil
}

// ResetCmd deletes every habit after a backup of local stores.
type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("⚠️  Delete ALL habits and their history?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	d := state.NewDispatcher(ctx.Store)
	d.BeforeReset = ctx.BackupBeforeReset()
	if _, err := d.Dispatch(state.ResetAll{}); err != nil {
		return err
	}
	ctx.Println("✓ All habits deleted.")
	return nil
}
