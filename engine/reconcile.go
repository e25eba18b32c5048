package engine

import (
	"context"
	"time"

	"github.com/teampulse/dailybot/utils"
)

// Reconcile sweeps the prompt correlation store at startup and deactivates
// every prompt that can no longer be completed: anything dated before today,
// and today's prompts for members who already submitted. Per-record failures
// are logged and skipped; a prompt left active is retried on the next boot.
func (e *Engine) Reconcile(ctx context.Context) {
	today := e.ledger.Today()
	all := e.prompts.ListAll()

	checked, disabled := 0, 0
	for date, groups := range all {
		for groupID, users := range groups {
			if groupID != e.groupID {
				continue
			}
			for userID, rec := range users {
				if rec.Disabled {
					continue
				}
				checked++
				stale := date < today
				if date == today && e.ledger.HasSubmittedToday(userID, groupID) {
					stale = true
				}
				if !stale {
					continue
				}
				e.disablePrompt(ctx, userID, date, rec)
				disabled++
			}
		}
	}
	utils.Sugar.Infof("reconcile: %d active prompts checked, %d deactivated", checked, disabled)
}

// StartPruner launches the retention sweep over the prompt correlation store.
// Entries older than retentionDays are dropped once per interval.
func (e *Engine) StartPruner(ctx context.Context, interval time.Duration, retentionDays int) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := e.now().In(e.loc).AddDate(0, 0, -retentionDays).Format("2006-01-02")
				n, err := e.prompts.PruneBefore(cutoff)
				if err != nil {
					utils.Sugar.Warnf("prompt prune failed: %v", err)
					continue
				}
				if n > 0 {
					utils.Sugar.Infof("pruned %d prompt dates older than %s", n, cutoff)
				}
			}
		}
	}()
}
