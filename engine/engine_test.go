package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/models"
	"github.com/teampulse/dailybot/storage"
)

type sentRecord struct {
	target string
	msg    messaging.Message
}

// fakeMessenger records every outbound call and can be told to fail per user
// or per channel.
type fakeMessenger struct {
	mu         sync.Mutex
	members    []messaging.Member
	membersErr error
	directFail map[string]error
	editFail   map[string]error
	directs    []sentRecord
	channels   []sentRecord
	edits      []sentRecord
}

func (f *fakeMessenger) GroupMembers(ctx context.Context, groupID string) ([]messaging.Member, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

func (f *fakeMessenger) OpenDirectChannel(ctx context.Context, userID string) (string, error) {
	return "dm-" + userID, nil
}

func (f *fakeMessenger) SendDirect(ctx context.Context, userID string, msg messaging.Message) (string, string, error) {
	if err := f.directFail[userID]; err != nil {
		return "", "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directs = append(f.directs, sentRecord{target: userID, msg: msg})
	return "dm-" + userID, fmt.Sprintf("msg-%d", len(f.directs)), nil
}

func (f *fakeMessenger) SendChannel(ctx context.Context, channelID string, msg messaging.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, sentRecord{target: channelID, msg: msg})
	return fmt.Sprintf("chmsg-%d", len(f.channels)), nil
}

func (f *fakeMessenger) EditMessage(ctx context.Context, channelID, messageID string, msg messaging.Message) error {
	if err := f.editFail[channelID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentRecord{target: channelID, msg: msg})
	return nil
}

func (f *fakeMessenger) directTargets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.directs))
	for _, s := range f.directs {
		out = append(out, s.target)
	}
	return out
}

const testGroup = "team"

func newTestEngine(t *testing.T, fm *fakeMessenger) *Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := config.AppConfig{GuildID: testGroup, DailiesChannel: "dailies"}
	schedule := storage.NewScheduleStore(filepath.Join(dir, "schedule.json"))
	ledger := storage.NewLedger(filepath.Join(dir, "dailies.json"), time.UTC)
	prompts := storage.NewPromptStore(filepath.Join(dir, "messages.json"))
	return New(cfg, schedule, ledger, prompts, fm)
}

// fireTime returns today's real date at the given clock, so the engine's
// pinned evaluation instant and the ledger's own day key agree.
func fireTime(hour, minute int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
}

func activateToday(t *testing.T, e *Engine, at time.Time) {
	t.Helper()
	day := strings.ToLower(at.Weekday().String())
	require.NoError(t, e.schedule.SetDays([]string{day}))
}

func TestEvaluatePromptFiresOncePerMinute(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{
		{ID: "u1", Username: "ana", DisplayName: "Ana"},
		{ID: "u2", Username: "bo", DisplayName: "Bo"},
	}}
	e := newTestEngine(t, fm)

	at := fireTime(10, 0)
	activateToday(t, e, at)
	require.NoError(t, e.ledger.TrySubmit("u2", testGroup, models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}))

	e.EvaluatePrompt(context.Background(), at)

	// Only the member without a submission gets a prompt, and the channel
	// header went out.
	assert.Equal(t, []string{"u1"}, fm.directTargets())
	require.Len(t, fm.channels, 1)
	assert.Equal(t, "dailies", fm.channels[0].target)

	rec, ok := e.prompts.Get("u1", testGroup, e.ledger.Today())
	require.True(t, ok)
	assert.Equal(t, "dm-u1", rec.ChannelID)
	assert.False(t, rec.Disabled)

	// A second evaluation within the same minute is a no-op.
	e.EvaluatePrompt(context.Background(), at)
	assert.Equal(t, []string{"u1"}, fm.directTargets())
	assert.Len(t, fm.channels, 1)
}

func TestEvaluatePromptOutsideWindow(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{{ID: "u1"}}}
	e := newTestEngine(t, fm)

	at := fireTime(10, 0)
	activateToday(t, e, at)

	e.EvaluatePrompt(context.Background(), at.Add(time.Minute))
	assert.Empty(t, fm.directs)

	require.NoError(t, e.schedule.SetEnabled(false))
	e.EvaluatePrompt(context.Background(), at)
	assert.Empty(t, fm.directs)
}

func TestEvaluatePromptPerRecipientFailure(t *testing.T) {
	fm := &fakeMessenger{
		members:    []messaging.Member{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}},
		directFail: map[string]error{"u2": fmt.Errorf("dms closed")},
	}
	e := newTestEngine(t, fm)

	report := e.DispatchPrompts(context.Background(), fireTime(10, 0))

	assert.Equal(t, []string{"u1", "u3"}, fm.directTargets())
	assert.Equal(t, 2, report.Count(models.DispatchSent))
	assert.Equal(t, 1, report.Count(models.DispatchFailed))

	// No correlation entry for the failed recipient.
	_, ok := e.prompts.Get("u2", testGroup, e.ledger.Today())
	assert.False(t, ok)
}

func TestEvaluateReminderOnlyMissing(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{{ID: "u1"}, {ID: "u2"}}}
	e := newTestEngine(t, fm)

	at := fireTime(14, 0)
	activateToday(t, e, at)
	h, m := at.Hour(), at.Minute()
	require.NoError(t, e.schedule.SetReminder(true, &h, &m))
	require.NoError(t, e.ledger.TrySubmit("u1", testGroup, models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}))

	e.EvaluateReminder(context.Background(), at)

	assert.Equal(t, []string{"u2"}, fm.directTargets())
	// Reminders leave no correlation entry.
	_, ok := e.prompts.Get("u2", testGroup, e.ledger.Today())
	assert.False(t, ok)
}

func TestEndOfDaySummaryAndRollover(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{
		{ID: "u1", DisplayName: "Ana"},
		{ID: "u2", DisplayName: "Bo"},
	}}
	e := newTestEngine(t, fm)

	at := fireTime(23, 59)
	activateToday(t, e, at)
	require.NoError(t, e.ledger.TrySubmit("u1", testGroup, models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}))

	e.EvaluateEndOfDay(context.Background(), at)

	require.Len(t, fm.channels, 1)
	require.NotNil(t, fm.channels[0].msg.Embed)
	assert.Contains(t, fm.channels[0].msg.Embed.Fields[0].Value, "<@u2>")
	assert.NotContains(t, fm.channels[0].msg.Embed.Fields[0].Value, "<@u1>")

	// Rollover empties the ledger.
	assert.Empty(t, e.ledger.TodaysSubmissions(testGroup))
}

func TestEndOfDaySkipsSummaryWhenComplete(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{{ID: "u1"}}}
	e := newTestEngine(t, fm)

	require.NoError(t, e.ledger.TrySubmit("u1", testGroup, models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}))

	e.RunEndOfDay(context.Background(), fireTime(23, 59))

	assert.Empty(t, fm.channels)
	assert.Empty(t, e.ledger.TodaysSubmissions(testGroup))
}

func TestSubmitReportDuplicateAndPromptDisable(t *testing.T) {
	fm := &fakeMessenger{members: []messaging.Member{{ID: "u1", DisplayName: "Ana"}}}
	e := newTestEngine(t, fm)

	today := e.ledger.Today()
	require.NoError(t, e.prompts.Record("u1", testGroup, today, "dm-u1", "msg-1"))

	report := models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}
	require.NoError(t, e.SubmitReport(context.Background(), "u1", report))

	// The accepted report is relayed and the prompt flipped to done.
	require.Len(t, fm.channels, 1)
	require.Len(t, fm.edits, 1)
	assert.Equal(t, "dm-u1", fm.edits[0].target)
	rec, ok := e.prompts.Get("u1", testGroup, today)
	require.True(t, ok)
	assert.True(t, rec.Disabled)

	err := e.SubmitReport(context.Background(), "u1", report)
	require.ErrorIs(t, err, storage.ErrAlreadySubmitted)
	assert.Len(t, fm.channels, 1)
	assert.Len(t, fm.edits, 1)
}

func TestStartStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	fm := &fakeMessenger{}
	e := newTestEngine(t, fm)
	e.tick = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	e.Start(ctx)
	e.StartPruner(ctx, time.Millisecond, 7)
	time.Sleep(20 * time.Millisecond)
	cancel()
	e.Stop()
}
