package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/models"
)

func TestReconcileDisablesStalePrompt(t *testing.T) {
	fm := &fakeMessenger{}
	e := newTestEngine(t, fm)

	require.NoError(t, e.prompts.Record("u1", testGroup, "2020-01-01", "dm-u1", "msg-1"))

	e.Reconcile(context.Background())

	require.Len(t, fm.edits, 1)
	assert.Equal(t, "dm-u1", fm.edits[0].target)
	rec, ok := e.prompts.Get("u1", testGroup, "2020-01-01")
	require.True(t, ok)
	assert.True(t, rec.Disabled)

	// A second pass finds nothing to do.
	e.Reconcile(context.Background())
	assert.Len(t, fm.edits, 1)
}

func TestReconcileDisablesTodayWhenSubmitted(t *testing.T) {
	fm := &fakeMessenger{}
	e := newTestEngine(t, fm)

	today := e.ledger.Today()
	require.NoError(t, e.prompts.Record("u1", testGroup, today, "dm-u1", "msg-1"))
	require.NoError(t, e.ledger.TrySubmit("u1", testGroup, models.Report{Feeling: "ok", Yesterday: "y", Today: "t"}))

	e.Reconcile(context.Background())

	rec, _ := e.prompts.Get("u1", testGroup, today)
	assert.True(t, rec.Disabled)
	assert.Len(t, fm.edits, 1)
}

func TestReconcileLeavesTodayPendingPrompt(t *testing.T) {
	fm := &fakeMessenger{}
	e := newTestEngine(t, fm)

	today := e.ledger.Today()
	require.NoError(t, e.prompts.Record("u1", testGroup, today, "dm-u1", "msg-1"))

	e.Reconcile(context.Background())

	rec, _ := e.prompts.Get("u1", testGroup, today)
	assert.False(t, rec.Disabled)
	assert.Empty(t, fm.edits)
}

func TestReconcileFallsBackToReopenedChannel(t *testing.T) {
	// The stored channel handle is dead, but re-opening the DM works.
	fm := &fakeMessenger{editFail: map[string]error{"stale-ch": fmt.Errorf("unknown channel")}}
	e := newTestEngine(t, fm)

	require.NoError(t, e.prompts.Record("u1", testGroup, "2020-01-01", "stale-ch", "msg-1"))

	e.Reconcile(context.Background())

	require.Len(t, fm.edits, 1)
	assert.Equal(t, "dm-u1", fm.edits[0].target)
	rec, _ := e.prompts.Get("u1", testGroup, "2020-01-01")
	assert.True(t, rec.Disabled)
}

func TestReconcileSwallowsEditFailure(t *testing.T) {
	fm := &fakeMessenger{editFail: map[string]error{
		"stale-ch": fmt.Errorf("unknown channel"),
		"dm-u1":    fmt.Errorf("message gone"),
	}}
	e := newTestEngine(t, fm)

	require.NoError(t, e.prompts.Record("u1", testGroup, "2020-01-01", "stale-ch", "msg-1"))
	require.NoError(t, e.prompts.Record("u2", testGroup, "2020-01-01", "dm-u2", "msg-2"))

	e.Reconcile(context.Background())

	// u1 stays active for the next boot, u2 got disabled.
	rec, _ := e.prompts.Get("u1", testGroup, "2020-01-01")
	assert.False(t, rec.Disabled)
	rec, _ = e.prompts.Get("u2", testGroup, "2020-01-01")
	assert.True(t, rec.Disabled)
}

func TestReconcileIgnoresOtherGroups(t *testing.T) {
	fm := &fakeMessenger{}
	e := newTestEngine(t, fm)

	require.NoError(t, e.prompts.Record("u1", "other-team", "2020-01-01", "dm-u1", "msg-1"))

	e.Reconcile(context.Background())

	assert.Empty(t, fm.edits)
	rec, _ := e.prompts.Get("u1", "other-team", "2020-01-01")
	assert.False(t, rec.Disabled)
}

var _ messaging.Messenger = (*fakeMessenger)(nil)
