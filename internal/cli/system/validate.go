package system

import (
	"errors"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits()
	if err != nil {
		return err
	}

	result := validation.New().ValidateHabits(habits)
	ctx.Print(result.FormatReport())
	if result.HasConflicts() {
		return errors.New("validation failed")
	}
	ctx.Println()
	return nil
}
