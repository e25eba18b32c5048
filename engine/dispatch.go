package engine

import (
	"context"
	"time"

	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/models"
	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

// DispatchPrompts sends the morning prompt to every team member who has not
// submitted today, posts the date header to the dailies channel, and records
// a prompt correlation entry per delivered message. Per-recipient failures
// are logged and counted; they never abort the batch.
func (e *Engine) DispatchPrompts(ctx context.Context, now time.Time) *models.BatchReport {
	report := models.NewBatchReport(TriggerPrompt)

	if _, err := e.messenger.SendChannel(ctx, e.channelID, messaging.Message{Content: dateHeader(now)}); err != nil {
		utils.Sugar.Warnf("dailies channel header failed: %v", err)
	}

	members, err := e.messenger.GroupMembers(ctx, e.groupID)
	if err != nil {
		utils.Sugar.Errorf("prompt dispatch: member listing failed: %v", err)
		return report
	}

	date := e.ledger.Today()
	msg := promptMessage(now)
	for _, m := range members {
		if ctx.Err() != nil {
			utils.Sugar.Warnf("prompt dispatch cancelled after %d recipients", len(report.Results))
			break
		}
		if e.ledger.HasSubmittedToday(m.ID, e.groupID) {
			report.Add(models.Skipped(m.ID, "already submitted"))
			continue
		}
		if err := e.pacing.Wait(ctx); err != nil {
			break
		}
		channelID, messageID, err := e.messenger.SendDirect(ctx, m.ID, msg)
		if err != nil {
			utils.Sugar.Warnf("prompt to %s failed: %v", m.ID, err)
			report.Add(models.Failed(m.ID, err))
			continue
		}
		if err := e.prompts.Record(m.ID, e.groupID, date, channelID, messageID); err != nil {
			utils.Sugar.Warnf("prompt correlation for %s not recorded: %v", m.ID, err)
		}
		report.Add(models.Sent(m.ID))
	}
	return report
}

// DispatchReminders re-evaluates the missing set at reminder time and nudges
// only members still without a submission. No correlation entry is written;
// the morning prompt's button remains the completion path.
func (e *Engine) DispatchReminders(ctx context.Context, now time.Time) *models.BatchReport {
	report := models.NewBatchReport(TriggerReminder)

	members, err := e.messenger.GroupMembers(ctx, e.groupID)
	if err != nil {
		utils.Sugar.Errorf("reminder dispatch: member listing failed: %v", err)
		return report
	}

	msg := reminderMessage()
	for _, m := range members {
		if ctx.Err() != nil {
			utils.Sugar.Warnf("reminder dispatch cancelled after %d recipients", len(report.Results))
			break
		}
		if e.ledger.HasSubmittedToday(m.ID, e.groupID) {
			report.Add(models.Skipped(m.ID, "already submitted"))
			continue
		}
		if err := e.pacing.Wait(ctx); err != nil {
			break
		}
		if _, _, err := e.messenger.SendDirect(ctx, m.ID, msg); err != nil {
			utils.Sugar.Warnf("reminder to %s failed: %v", m.ID, err)
			report.Add(models.Failed(m.ID, err))
			continue
		}
		report.Add(models.Sent(m.ID))
	}
	return report
}

// RunEndOfDay posts the missing-members summary to the dailies channel when
// anyone is still missing, then unconditionally clears the ledger so the next
// day starts from an empty slate. Summary delivery failure does not block the
// rollover.
func (e *Engine) RunEndOfDay(ctx context.Context, now time.Time) {
	members, err := e.messenger.GroupMembers(ctx, e.groupID)
	if err != nil {
		utils.Sugar.Errorf("end of day: member listing failed: %v", err)
	} else {
		var missing []messaging.Member
		for _, m := range members {
			if !e.ledger.HasSubmittedToday(m.ID, e.groupID) {
				missing = append(missing, m)
			}
		}
		if len(missing) == 0 {
			utils.Sugar.Infof("end of day: everyone submitted, summary skipped")
		} else if _, err := e.messenger.SendChannel(ctx, e.channelID, summaryMessage(now, missing)); err != nil {
			utils.Sugar.Warnf("end of day summary failed: %v", err)
		}
	}

	if err := e.ledger.ClearAll(); err != nil {
		utils.Sugar.Errorf("ledger rollover failed: %v", err)
		return
	}
	utils.Sugar.Infof("ledger rolled over for %s", now.Format("2006-01-02"))
}

// RunPrompt dispatches the prompt batch at the engine's current local time.
// Used for operator-triggered runs; the watermark is not consulted.
func (e *Engine) RunPrompt(ctx context.Context) *models.BatchReport {
	return e.DispatchPrompts(ctx, e.now().In(e.loc))
}

// RunReminder dispatches the reminder batch at the engine's current local time.
func (e *Engine) RunReminder(ctx context.Context) *models.BatchReport {
	return e.DispatchReminders(ctx, e.now().In(e.loc))
}

// SubmitReport is the intake path. The ledger write is the single admission
// point: a duplicate for (today, group, user) surfaces as
// storage.ErrAlreadySubmitted and nothing else happens. On acceptance the
// report is relayed to the dailies channel and today's prompt message, if one
// is correlated, is flipped to its completed state. Both follow-ups are best
// effort.
func (e *Engine) SubmitReport(ctx context.Context, userID string, report models.Report) error {
	report.Normalize()
	if err := e.ledger.TrySubmit(userID, e.groupID, report); err != nil {
		return err
	}
	rec := models.NewSubmissionRecord(report, e.now().In(e.loc))

	display := e.displayName(ctx, userID)
	if _, err := e.messenger.SendChannel(ctx, e.channelID, reportMessage(display, userID, rec)); err != nil {
		utils.Sugar.Warnf("report relay for %s failed: %v", userID, err)
	}

	if pr, ok := e.prompts.Get(userID, e.groupID, e.ledger.Today()); ok && !pr.Disabled {
		e.disablePrompt(ctx, userID, e.ledger.Today(), pr)
	}
	return nil
}

// disablePrompt edits the remote prompt into its completed state and marks
// the correlation record. When the stored channel handle no longer resolves,
// it falls back to re-opening the direct channel. Failures are swallowed so a
// later reconciliation run can retry.
func (e *Engine) disablePrompt(ctx context.Context, userID, date string, pr models.PromptRecord) {
	err := e.messenger.EditMessage(ctx, pr.ChannelID, pr.MessageID, completedPromptMessage())
	if err != nil {
		ch, cerr := e.messenger.OpenDirectChannel(ctx, userID)
		if cerr != nil {
			utils.Sugar.Warnf("prompt disable for %s: channel unresolvable: %v", userID, cerr)
			return
		}
		err = e.messenger.EditMessage(ctx, ch, pr.MessageID, completedPromptMessage())
	}
	if err != nil {
		utils.Sugar.Warnf("prompt disable for %s failed: %v", userID, err)
		return
	}
	if _, err := e.prompts.MarkDisabled(userID, e.groupID, date); err != nil {
		utils.Sugar.Warnf("prompt record for %s not marked: %v", userID, err)
	}
}

// displayName resolves a member's display name, falling back to the mention
// form when the roster lookup fails.
func (e *Engine) displayName(ctx context.Context, userID string) string {
	members, err := e.messenger.GroupMembers(ctx, e.groupID)
	if err == nil {
		for _, m := range members {
			if m.ID == userID {
				return m.DisplayName
			}
		}
	}
	return (messaging.Member{ID: userID}).Mention()
}

// Ledger exposes the submission ledger for the read-side handlers.
func (e *Engine) Ledger() *storage.Ledger { return e.ledger }
