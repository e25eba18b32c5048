// Package engine hosts the scheduled trigger engine: three independent
// minute-granularity evaluators (morning prompt, straggler reminder,
// end-of-day summary), the startup reconciliation pass over the prompt
// correlation store, and the intake path that writes the submission ledger.
package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

// Trigger names used in watermarks, batch reports, and logs.
const (
	TriggerPrompt   = "prompt"
	TriggerReminder = "reminder"
	TriggerEndOfDay = "end_of_day"
)

// Watermarks are fully qualified to the minute, so a trigger fires at most
// once per wall-clock minute within one process lifetime.
const watermarkLayout = "2006-01-02 15:04"

// The end-of-day trigger is fixed at the last minute of the day.
const (
	endOfDayHour   = 23
	endOfDayMinute = 59
)

// Engine owns the three evaluators and drives the stores and the messaging
// collaborator. A single active process is assumed; running two instances
// would double-fire triggers.
type Engine struct {
	schedule  *storage.ScheduleStore
	ledger    *storage.Ledger
	prompts   *storage.PromptStore
	messenger messaging.Messenger

	groupID   string
	channelID string
	loc       *time.Location
	now       func() time.Time
	pacing    *rate.Limiter
	tick      time.Duration

	mu         sync.Mutex
	watermarks map[string]string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires an engine from configuration and its collaborators.
func New(cfg config.AppConfig, schedule *storage.ScheduleStore, ledger *storage.Ledger, prompts *storage.PromptStore, messenger messaging.Messenger) *Engine {
	return &Engine{
		schedule:   schedule,
		ledger:     ledger,
		prompts:    prompts,
		messenger:  messenger,
		groupID:    cfg.GuildID,
		channelID:  cfg.DailiesChannel,
		loc:        cfg.Location(),
		now:        time.Now,
		pacing:     rate.NewLimiter(rate.Every(cfg.SendPacing()), 1),
		tick:       time.Minute,
		watermarks: map[string]string{},
	}
}

// Start launches the three evaluator goroutines. Reconcile should have run
// before this so stale prompts are deactivated first.
func (e *Engine) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	evaluators := []struct {
		name string
		run  func(context.Context, time.Time)
	}{
		{TriggerPrompt, e.EvaluatePrompt},
		{TriggerReminder, e.EvaluateReminder},
		{TriggerEndOfDay, e.EvaluateEndOfDay},
	}
	for _, ev := range evaluators {
		e.wg.Add(1)
		go e.loop(runCtx, ev.name, ev.run)
	}
	utils.Sugar.Infof("trigger engine started with %d evaluators, tick=%s", len(evaluators), e.tick)
}

func (e *Engine) loop(ctx context.Context, name string, run func(context.Context, time.Time)) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			utils.Sugar.Infof("%s evaluator stopped", name)
			return
		case <-ticker.C:
			run(ctx, e.now().In(e.loc))
		}
	}
}

// Stop cancels the evaluators and waits for them. An in-flight dispatch batch
// finishes its current recipient before its evaluator exits.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// passWatermark records that the trigger handled this exact minute. Returns
// false when the minute was already handled, making repeated evaluations
// within the same minute no-ops. The watermark advances regardless of the
// dispatch outcome; failures wait for the next eligible day.
func (e *Engine) passWatermark(trigger string, now time.Time) bool {
	key := now.Format(watermarkLayout)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watermarks[trigger] == key {
		return false
	}
	e.watermarks[trigger] = key
	return true
}

// EvaluatePrompt fires the morning prompt batch when the current minute
// matches the configured prompt time on an active weekday. Missed minutes are
// not caught up; the semantic is at-most-once per occurrence.
func (e *Engine) EvaluatePrompt(ctx context.Context, now time.Time) {
	sc := e.schedule.Get()
	if !sc.Enabled || !sc.ActiveOn(now.Weekday()) {
		return
	}
	if now.Hour() != sc.Hour || now.Minute() != sc.Minute {
		return
	}
	if !e.passWatermark(TriggerPrompt, now) {
		return
	}
	utils.Sugar.Infof("prompt trigger firing at %s", now.Format(watermarkLayout))
	report := e.DispatchPrompts(ctx, now)
	utils.Sugar.Infof("prompt dispatch done: %s", report.Summary())
}

// EvaluateReminder fires the straggler reminder when enabled and matching.
func (e *Engine) EvaluateReminder(ctx context.Context, now time.Time) {
	sc := e.schedule.Get()
	if !sc.ReminderEnabled || !sc.ActiveOn(now.Weekday()) {
		return
	}
	if now.Hour() != sc.ReminderHour || now.Minute() != sc.ReminderMinute {
		return
	}
	if !e.passWatermark(TriggerReminder, now) {
		return
	}
	utils.Sugar.Infof("reminder trigger firing at %s", now.Format(watermarkLayout))
	report := e.DispatchReminders(ctx, now)
	utils.Sugar.Infof("reminder dispatch done: %s", report.Summary())
}

// EvaluateEndOfDay fires the summary and ledger rollover at 23:59 on active days.
func (e *Engine) EvaluateEndOfDay(ctx context.Context, now time.Time) {
	sc := e.schedule.Get()
	if !sc.Enabled || !sc.ActiveOn(now.Weekday()) {
		return
	}
	if now.Hour() != endOfDayHour || now.Minute() != endOfDayMinute {
		return
	}
	if !e.passWatermark(TriggerEndOfDay, now) {
		return
	}
	utils.Sugar.Infof("end-of-day trigger firing at %s", now.Format(watermarkLayout))
	e.RunEndOfDay(ctx, now)
}
