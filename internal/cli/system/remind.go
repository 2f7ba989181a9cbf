package system

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/notifier"
	"github.com/julianstephens/habitlit/internal/stats"
)

var (
	newSender  = func() notifier.Sender { return notifier.New() }
	ledgerPath = func() string { return filepath.Join(config.ConfigDir(), constants.ReminderLedgerFile) }
)

// RemindCmd sends a tray notification for every habit whose reminder time has passed today.
// It is meant to be run periodically, e.g. from cron. Each habit is reminded at most once
// per day; the days already reminded are kept in reminders.json next to the config file.
type RemindCmd struct {
	DryRun bool `help:"Print the reminders instead of sending them."`
}

func (cmd *RemindCmd) Run(ctx *cli.Context) error {
	if !ctx.Config.Reminders.Enabled {
		ctx.Println("Reminders are disabled in the config.")
		return nil
	}

	habits, err := ctx.Store.ListHabits()
	if err != nil {
		return err
	}
	now := ctx.Clock()
	today := stats.DayKey(now)

	ledger, err := notifier.LoadLedger(ledgerPath())
	if err != nil {
		return err
	}

	if cmd.DryRun {
		printed := 0
		for _, h := range notifier.Due(habits, now) {
			if ledger.Notified(h.ID, today) {
				continue
			}
			ctx.Println(notifier.Message(h, now))
			printed++
		}
		if printed == 0 {
			ctx.Println("No reminders due.")
		}
		return nil
	}

	sent, err := notifier.Remind(context.Background(), newSender(), habits, now, ledger)
	if saveErr := ledger.Save(today); saveErr != nil {
		logger.Warn("Failed to save reminder ledger", "error", saveErr)
	}
	if err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			// Not an error for scheduled runs
			logger.Debug("Skipping reminders, tray not running")
			ctx.Println("habitlit-tray is not running, no reminders sent.")
			return nil
		}
		return fmt.Errorf("failed to send reminders: %w", err)
	}
	ctx.Printf("Sent %d reminder(s).\n", sent)
	return nil
}
