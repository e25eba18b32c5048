package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DispatchStatus classifies the outcome of one recipient in an outbound batch.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchSkipped DispatchStatus = "skipped"
	DispatchFailed  DispatchStatus = "failed"
)

// DispatchResult is the per-recipient outcome of a dispatch batch.
type DispatchResult struct {
	UserID string         `json:"user_id"`
	Status DispatchStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

// Sent marks a recipient as successfully delivered.
func Sent(userID string) DispatchResult {
	return DispatchResult{UserID: userID, Status: DispatchSent}
}

// Skipped marks a recipient that was filtered out before sending.
func Skipped(userID, reason string) DispatchResult {
	return DispatchResult{UserID: userID, Status: DispatchSkipped, Reason: reason}
}

// Failed marks a recipient whose delivery errored; the batch continues.
func Failed(userID string, err error) DispatchResult {
	return DispatchResult{UserID: userID, Status: DispatchFailed, Reason: err.Error()}
}

// BatchReport aggregates per-recipient results for one trigger firing.
type BatchReport struct {
	ID      string           `json:"id"`
	Trigger string           `json:"trigger"`
	Results []DispatchResult `json:"results"`
}

// NewBatchReport creates an empty report for the named trigger.
func NewBatchReport(trigger string) *BatchReport {
	return &BatchReport{ID: uuid.NewString(), Trigger: trigger}
}

// Add appends one recipient outcome.
func (b *BatchReport) Add(r DispatchResult) {
	b.Results = append(b.Results, r)
}

// Count returns how many results carry the given status.
func (b *BatchReport) Count(status DispatchStatus) int {
	n := 0
	for _, r := range b.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Summary renders a one-line log form of the batch outcome.
func (b *BatchReport) Summary() string {
	return fmt.Sprintf("batch=%s trigger=%s sent=%d skipped=%d failed=%d",
		b.ID, b.Trigger, b.Count(DispatchSent), b.Count(DispatchSkipped), b.Count(DispatchFailed))
}
