package agent

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const transcriptSize = 50

type turn struct {
	Speaker   string
	Text      string
	Timestamp time.Time
}

// Transcript keeps the most recent turns of a conversation.
type Transcript struct {
	mu    sync.Mutex
	turns []turn
	total int
}

func (h *Transcript) add(speaker, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := turn{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	}
	h.total++

	if len(h.turns) >= transcriptSize {
		h.turns = append(h.turns[1:], t)
	} else {
		h.turns = append(h.turns, t)
	}
}

func (h *Transcript) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.turns)
}

// Total counts every turn ever added, including the ones no longer kept.
func (h *Transcript) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.total
}

func (h *Transcript) Format() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.turns) == 0 {
		return "No turns yet"
	}

	var builder strings.Builder

	for _, t := range h.turns {
		builder.WriteString(fmt.Sprintf("%s - %s: %s\n", t.Timestamp.Format("15:04:05"), t.Speaker, t.Text))
	}

	return builder.String()
}
