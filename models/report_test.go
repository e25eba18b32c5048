package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportNormalizeBlockersSentinel(t *testing.T) {
	r := Report{Feeling: "ok", Yesterday: "y", Today: "t", Blockers: "  "}
	r.Normalize()
	assert.Equal(t, NoBlockers, r.Blockers)
	assert.False(t, r.HasBlockers())

	r = Report{Blockers: "waiting on access"}
	r.Normalize()
	assert.Equal(t, "waiting on access", r.Blockers)
	assert.True(t, r.HasBlockers())
}

func TestNewSubmissionRecord(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 5, 0, 0, time.UTC)
	rec := NewSubmissionRecord(Report{Feeling: "ok", Yesterday: "y", Today: "t"}, at)

	assert.Equal(t, NoBlockers, rec.Blockers)
	assert.False(t, rec.HasBlockers())
	assert.Equal(t, at, rec.Timestamp)
}
