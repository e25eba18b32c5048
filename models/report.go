package models

import (
	"strings"
	"time"
)

// NoBlockers is stored when the member left the optional blockers answer empty.
const NoBlockers = "none"

// Report carries one member's daily standup answers at the intake boundary.
type Report struct {
	Feeling   string `json:"feeling"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

// Normalize fills the blockers sentinel for empty input.
func (r *Report) Normalize() {
	if strings.TrimSpace(r.Blockers) == "" {
		r.Blockers = NoBlockers
	}
}

// HasBlockers reports whether the member flagged anything beyond the sentinel.
func (r Report) HasBlockers() bool {
	return strings.TrimSpace(r.Blockers) != "" && r.Blockers != NoBlockers
}

// SubmissionRecord is the immutable ledger entry for one (date, group, user) key.
type SubmissionRecord struct {
	Feeling   string    `json:"feeling"`
	Yesterday string    `json:"yesterday"`
	Today     string    `json:"today"`
	Blockers  string    `json:"blockers"`
	Timestamp time.Time `json:"timestamp"`
}

// HasBlockers reports whether the stored blockers field names a real blocker.
func (s SubmissionRecord) HasBlockers() bool {
	return strings.TrimSpace(s.Blockers) != "" && s.Blockers != NoBlockers
}

// NewSubmissionRecord freezes a normalized report at the given instant.
func NewSubmissionRecord(r Report, at time.Time) SubmissionRecord {
	r.Normalize()
	return SubmissionRecord{
		Feeling:   r.Feeling,
		Yesterday: r.Yesterday,
		Today:     r.Today,
		Blockers:  r.Blockers,
		Timestamp: at,
	}
}
