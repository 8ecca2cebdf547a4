package wellness

import (
	"fmt"
	"strings"
	"time"

	"voicedesk/app/service/journal"
)

const NoHistorySummary = "No previous history found. This is the first session."

// Entry is one saved check-in as it appears in the log file.
type Entry struct {
	Timestamp  string   `json:"timestamp"`
	Mood       string   `json:"mood"`
	Energy     string   `json:"energy"`
	Objectives []string `json:"objectives"`
	Summary    string   `json:"summary"`
}

type Store struct {
	log *journal.ArrayLog[Entry]
	now func() time.Time
}

func NewStore(path string, locked bool) *Store {
	return &Store{
		log: journal.NewArrayLog[Entry](path, locked),
		now: time.Now,
	}
}

func (s *Store) Path() string {
	return s.log.Path()
}

// History returns all saved check-ins, oldest first.
func (s *Store) History() []Entry {
	return s.log.Load()
}

// Save appends a finished check-in to the log.
func (s *Store) Save(c CheckIn) (Entry, error) {
	entry := Entry{
		Timestamp:  s.now().Format(time.RFC3339),
		Mood:       c.Mood,
		Energy:     c.Energy,
		Objectives: append([]string{}, c.Objectives...),
		Summary:    c.AdviceGiven,
	}

	if _, err := s.log.Append(entry); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// Summarize describes the most recent check-in in one paragraph.
func Summarize(entries []Entry) string {
	if len(entries) == 0 {
		return NoHistorySummary
	}

	last := entries[len(entries)-1]

	timestamp := last.Timestamp
	if timestamp == "" {
		timestamp = "unknown date"
	}

	return fmt.Sprintf("Last check-in was on %s. User felt %s with %s energy. Their goals were: %s.",
		timestamp, last.Mood, last.Energy, strings.Join(last.Objectives, ", "))
}
