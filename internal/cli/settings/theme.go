package settings

import (
	"fmt"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tui/state"
)

type ThemeCmd struct {
	Get    ThemeGetCmd    `cmd:"" help:"Show the current theme." default:"1"`
	Set    ThemeSetCmd    `cmd:"" help:"Set the theme."`
	Toggle ThemeToggleCmd `cmd:"" help:"Switch between light and dark."`
}

type ThemeGetCmd struct{}

func (c *ThemeGetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ctx.Println(settings.Theme)
	return nil
}

type ThemeSetCmd struct {
	Theme string `arg:"" help:"light or dark." enum:"light,dark"`
}

func (c *ThemeSetCmd) Run(ctx *cli.Context) error {
	theme, err := models.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Theme = theme
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Theme set to %s.\n", theme)
	return nil
}

type ThemeToggleCmd struct{}

func (c *ThemeToggleCmd) Run(ctx *cli.Context) error {
	res, err := state.NewDispatcher(ctx.Store).Dispatch(state.ToggleTheme{})
	if err != nil {
		return err
	}
	ctx.Printf("Theme set to %s.\n", res.Theme)
	return nil
}
