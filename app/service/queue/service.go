package queue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service buffers user utterances between the input source and the conversation.
type Service struct {
	queue chan Utterance
}

type Utterance struct {
	SessionID string
	Text      string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Utterance, bufferSize),
	}, nil
}

// Add queues an utterance, dropping it when the queue is full or closed.
func (s *Service) Add(sessionID, text string) bool {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("utterance queue is closed")
		}
	}()

	select {
	case s.queue <- Utterance{SessionID: sessionID, Text: text}:
		return true
	default:
		slog.Warn("utterance queue is full")
		return false
	}
}

// ErrClosed is returned by Put once the queue has been shut down.
var ErrClosed = errors.New("utterance queue is closed")

// Put queues an utterance, waiting for space until ctx ends. Use it for sources
// that must not lose input.
func (s *Service) Put(ctx context.Context, sessionID, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrClosed
		}
	}()

	select {
	case s.queue <- Utterance{SessionID: sessionID, Text: text}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) Channel() <-chan Utterance {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
