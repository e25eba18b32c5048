package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/teampulse/dailybot/models"
)

// ErrAlreadySubmitted is the normal rejection for a duplicate daily report.
var ErrAlreadySubmitted = errors.New("already submitted today")

// ledgerDoc is the persisted layout: date -> group -> user -> record.
type ledgerDoc map[string]map[string]map[string]models.SubmissionRecord

// Ledger enforces at-most-one accepted report per (date, group, user). The
// duplicate check and the write happen under one mutex so concurrent
// submissions for the same key resolve to exactly one acceptance.
type Ledger struct {
	path string
	loc  *time.Location
	now  func() time.Time
	mu   sync.Mutex
}

// NewLedger creates a ledger backed by the given file, resolving "today" in loc.
func NewLedger(path string, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{path: path, loc: loc, now: time.Now}
}

// Today returns the current ledger date key.
func (l *Ledger) Today() string {
	return l.now().In(l.loc).Format("2006-01-02")
}

// loadLenient treats a missing or unparsable document as an empty ledger.
// Reads never surface storage faults to callers.
func (l *Ledger) loadLenient() ledgerDoc {
	doc := ledgerDoc{}
	if err := readDocument(l.path, &doc); err != nil {
		return ledgerDoc{}
	}
	return doc
}

// loadForWrite is loadLenient plus the defensive backup-and-reset for an
// unparsable document, taken before the next successful write replaces it.
func (l *Ledger) loadForWrite() ledgerDoc {
	doc := ledgerDoc{}
	err := readDocument(l.path, &doc)
	if err == nil {
		return doc
	}
	if errors.Is(err, errCorrupt) {
		backupCorrupt(l.path)
	}
	return ledgerDoc{}
}

// TrySubmit records the report for today unless one already exists for the
// key, in which case ErrAlreadySubmitted is returned and the ledger is
// unchanged. Records are immutable once accepted.
func (l *Ledger) TrySubmit(userID, groupID string, report models.Report) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := l.loadForWrite()
	today := l.Today()

	if doc[today] == nil {
		doc[today] = map[string]map[string]models.SubmissionRecord{}
	}
	if doc[today][groupID] == nil {
		doc[today][groupID] = map[string]models.SubmissionRecord{}
	}
	if _, exists := doc[today][groupID][userID]; exists {
		return ErrAlreadySubmitted
	}

	doc[today][groupID][userID] = models.NewSubmissionRecord(report, l.now().In(l.loc))
	return writeDocument(l.path, doc)
}

// HasSubmittedToday reports whether the user already has a record for today.
func (l *Ledger) HasSubmittedToday(userID, groupID string) bool {
	_, ok := l.TodaysSubmissions(groupID)[userID]
	return ok
}

// TodaysSubmissions returns today's records for a group, keyed by user ID.
func (l *Ledger) TodaysSubmissions(groupID string) map[string]models.SubmissionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := l.loadLenient()
	if day, ok := doc[l.Today()]; ok {
		if group, ok := day[groupID]; ok {
			return group
		}
	}
	return map[string]models.SubmissionRecord{}
}

// ClearAll replaces the whole ledger with an empty document. Invoked from the
// end-of-day rollover, which assumes single-day retention.
func (l *Ledger) ClearAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return writeDocument(l.path, ledgerDoc{})
}
