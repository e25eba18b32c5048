// Package storage persists the bot's three JSON documents: the schedule
// configuration, the per-day submission ledger, and the prompt correlation
// store. Every document tolerates being absent or unparsable: reads fall back
// to defaults, and mutations preserve a timestamped backup of an unparsable
// payload before resetting it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/teampulse/dailybot/utils"
)

var errCorrupt = errors.New("unparsable document")

// readDocument decodes the JSON document at path into out.
// A missing or empty file returns os.ErrNotExist; invalid JSON returns errCorrupt.
func readDocument(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return os.ErrNotExist
	}
	if len(b) == 0 {
		return os.ErrNotExist
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errCorrupt
	}
	return nil
}

// writeDocument marshals v as indented JSON and writes it, creating the
// parent directory on first use.
func writeDocument(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// backupCorrupt preserves an unparsable document under a timestamped name so
// the bad payload can be inspected later. Best-effort.
func backupCorrupt(path string) {
	backup := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102_150405"))
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := os.WriteFile(backup, b, 0o644); err != nil {
		return
	}
	utils.Sugar.Warnf("preserved corrupt document %s as %s", path, backup)
}
