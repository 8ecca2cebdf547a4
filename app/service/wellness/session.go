package wellness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"voicedesk/app/util/vocab"
)

const (
	refuseIncomplete = "I can't finish yet. I still need to know your mood, energy, or at least one goal."
	refuseSaved      = "Today's check-in is already saved. We can start a new one next time."
)

// Vocabulary restricts the words accepted for mood and energy. Empty lists accept
// free text.
type Vocabulary struct {
	Moods    []string
	Energies []string
}

// Session is one check-in conversation. The history summary is computed when the
// session starts and never changes afterwards.
type Session struct {
	id             string
	startedAt      time.Time
	historySummary string

	store      *Store
	vocabulary Vocabulary

	mu      sync.Mutex
	checkIn CheckIn
	saved   bool
}

func NewSession(id string, store *Store, vocabulary Vocabulary) *Session {
	return &Session{
		id:             id,
		startedAt:      time.Now(),
		historySummary: Summarize(store.History()),
		store:          store,
		vocabulary:     vocabulary,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) HistorySummary() string {
	return s.historySummary
}

// Instructions returns the assistant instructions for this session.
func (s *Session) Instructions() string {
	return Instructions(s.historySummary, s.vocabulary)
}

// Snapshot returns a copy of the current check-in.
func (s *Session) Snapshot() CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkIn.clone()
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved {
		return StageSaved
	}

	return s.checkIn.NextStage()
}

func (s *Session) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saved
}

// RecordMoodAndEnergy stores how the user feels.
func (s *Session) RecordMoodAndEnergy(ctx context.Context, mood, energy string) string {
	mood = strings.TrimSpace(mood)
	energy = strings.TrimSpace(energy)

	switch {
	case mood == "" && energy == "":
		return "How are you feeling today, and how is your energy?"
	case mood == "":
		return "How are you feeling in yourself today?"
	case energy == "":
		return "And how would you describe your energy right now?"
	}

	if !vocab.Allowed(s.vocabulary.Moods, mood) {
		return fmt.Sprintf("I can only note a mood of %s. Which one fits best?", vocab.List(s.vocabulary.Moods))
	}
	if !vocab.Allowed(s.vocabulary.Energies, energy) {
		return fmt.Sprintf("I can only note an energy level of %s. Which one fits best?", vocab.List(s.vocabulary.Energies))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved {
		return refuseSaved
	}

	s.checkIn.Mood = mood
	s.checkIn.Energy = energy

	slog.InfoContext(ctx, "Mood logged",
		"session_id", s.id,
		"mood", mood,
		"energy", energy,
	)

	return fmt.Sprintf("I've noted that you are feeling %s with %s energy. I'm listening.", mood, energy)
}

// RecordObjectives replaces the goals for the day.
func (s *Session) RecordObjectives(ctx context.Context, objectives []string) string {
	objectives = vocab.Clean(objectives)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved {
		return refuseSaved
	}

	s.checkIn.Objectives = objectives

	slog.InfoContext(ctx, "Objectives logged",
		"session_id", s.id,
		"objectives", objectives,
	)

	return "I've written down your goals for the day."
}

// CompleteCheckin saves the check-in and returns the spoken recap. An incomplete
// check-in is refused with a message and no error. Storage failures are returned.
func (s *Session) CompleteCheckin(ctx context.Context, adviceSummary string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved {
		return refuseSaved, nil
	}

	s.checkIn.AdviceGiven = strings.TrimSpace(adviceSummary)

	if !s.checkIn.IsComplete() {
		slog.InfoContext(ctx, "Check-in refused, incomplete",
			"session_id", s.id,
			"stage", s.checkIn.NextStage(),
		)
		return refuseIncomplete, nil
	}

	entry, err := s.store.Save(s.checkIn)
	if err != nil {
		return "", fmt.Errorf("failed to save check-in: %w", err)
	}

	s.saved = true

	slog.InfoContext(ctx, "Check-in completed",
		"session_id", s.id,
		"mood", entry.Mood,
		"energy", entry.Energy,
		"objectives", entry.Objectives,
		"telegram", true,
	)

	return recap(s.checkIn), nil
}

func recap(c CheckIn) string {
	var b strings.Builder

	b.WriteString("Here is your recap for today: ")
	fmt.Fprintf(&b, "You are feeling %s and your energy is %s. ", c.Mood, c.Energy)
	fmt.Fprintf(&b, "Your main goals are: %s. ", strings.Join(c.Objectives, ", "))
	if c.AdviceGiven != "" {
		fmt.Fprintf(&b, "Remember: %s ", c.AdviceGiven)
	}
	b.WriteString("I've saved this in your wellness log. Have a wonderful day!")

	return b.String()
}
