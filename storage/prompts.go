package storage

import (
	"errors"
	"sync"

	"github.com/teampulse/dailybot/models"
)

// promptDoc layout mirrors the ledger: date -> group -> user -> record.
type promptDoc map[string]map[string]map[string]models.PromptRecord

// PromptStore persists which interactive prompt was sent to each member so
// stale prompts can be deactivated after a restart. It is intentionally not
// cleared at day rollover; old dates are removed by the pruner.
type PromptStore struct {
	path string
	mu   sync.Mutex
}

// NewPromptStore creates a store backed by the given file path.
func NewPromptStore(path string) *PromptStore {
	return &PromptStore{path: path}
}

func (p *PromptStore) loadForWrite() promptDoc {
	doc := promptDoc{}
	err := readDocument(p.path, &doc)
	if err == nil {
		return doc
	}
	if errors.Is(err, errCorrupt) {
		backupCorrupt(p.path)
	}
	return promptDoc{}
}

// Record stores the delivered prompt's channel and message handles. A
// re-recorded key keeps its existing disabled flag so disablement stays
// monotonic across supersession.
func (p *PromptStore) Record(userID, groupID, date, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := p.loadForWrite()
	if doc[date] == nil {
		doc[date] = map[string]map[string]models.PromptRecord{}
	}
	if doc[date][groupID] == nil {
		doc[date][groupID] = map[string]models.PromptRecord{}
	}
	disabled := doc[date][groupID][userID].Disabled
	doc[date][groupID][userID] = models.PromptRecord{
		ChannelID: channelID,
		MessageID: messageID,
		Disabled:  disabled,
	}
	return writeDocument(p.path, doc)
}

// ListAll returns the full document for reconciliation scans.
func (p *PromptStore) ListAll() map[string]map[string]map[string]models.PromptRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := promptDoc{}
	if err := readDocument(p.path, &doc); err != nil {
		return promptDoc{}
	}
	return doc
}

// Get returns the record for one key.
func (p *PromptStore) Get(userID, groupID, date string) (models.PromptRecord, bool) {
	all := p.ListAll()
	if day, ok := all[date]; ok {
		if group, ok := day[groupID]; ok {
			rec, ok := group[userID]
			return rec, ok
		}
	}
	return models.PromptRecord{}, false
}

// MarkDisabled flips the record's disabled flag to true. Returns false when
// the key does not exist.
func (p *PromptStore) MarkDisabled(userID, groupID, date string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := p.loadForWrite()
	group, ok := doc[date][groupID]
	if !ok {
		return false, nil
	}
	rec, ok := group[userID]
	if !ok {
		return false, nil
	}
	rec.Disabled = true
	group[userID] = rec
	return true, writeDocument(p.path, doc)
}

// DeleteDate drops every record for one date. Deleting an absent date is a no-op.
func (p *PromptStore) DeleteDate(date string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := p.loadForWrite()
	if _, ok := doc[date]; !ok {
		return nil
	}
	delete(doc, date)
	return writeDocument(p.path, doc)
}

// PruneBefore removes every date strictly older than cutoff (YYYY-MM-DD keys
// compare lexicographically). Returns the number of dates removed.
func (p *PromptStore) PruneBefore(cutoff string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc := p.loadForWrite()
	removed := 0
	for date := range doc {
		if date < cutoff {
			delete(doc, date)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, writeDocument(p.path, doc)
}
