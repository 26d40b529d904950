package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const maxExceptions = 500

// ExceptionEntry is one tracked exception as kept in the exception log.
type ExceptionEntry struct {
	Time    time.Time `json:"time"`
	Command string    `json:"command"`
	Error   string    `json:"error"`
}

func (e ExceptionEntry) String() string {
	return fmt.Sprintf("%s: %s -> %s", e.Time.Format("Mon Jan 02, 2006 at 15:04:05 GMT"), e.Command, e.Error)
}

func exceptionsPath(dataDir string) string {
	return filepath.Join(dataDir, "exceptions.jsonl")
}

// LoadExceptions reads the exception log, newest first. The file keeps one
// JSON object per line, oldest first.
func LoadExceptions(dataDir string) ([]ExceptionEntry, error) {
	lines, err := readLines(exceptionsPath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []ExceptionEntry{}, nil
		}
		return nil, err
	}

	entries := make([]ExceptionEntry, 0, len(lines))
	for i, line := range lines {
		var entry ExceptionEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("exception log line %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return reverse(entries), nil
}

// SaveExceptions writes entries (newest first) to the exception log.
func SaveExceptions(dataDir string, entries []ExceptionEntry) error {
	oldestFirst := reverse(entries)
	lines := make([]string, 0, len(oldestFirst))
	for _, entry := range oldestFirst {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		lines = append(lines, string(data))
	}
	return writeLines(exceptionsPath(dataDir), lines)
}

// AddException prepends entry, dropping the oldest entries past the cap.
func AddException(entries []ExceptionEntry, entry ExceptionEntry) []ExceptionEntry {
	entries = append([]ExceptionEntry{entry}, entries...)
	if len(entries) > maxExceptions {
		entries = entries[:maxExceptions]
	}
	return entries
}
