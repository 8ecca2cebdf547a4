package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"voicedesk/app/config"
	"voicedesk/app/service/agent"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/queue"
	"voicedesk/app/service/session"
	"voicedesk/app/service/tools"
	"voicedesk/app/service/transcribe"
	"voicedesk/app/service/wellness"

	"github.com/samber/do"
)

type Mode string

const (
	ModeWellness Mode = "wellness"
	ModeCoffee   Mode = "coffee"
)

type Input string

const (
	InputText  Input = "text"
	InputVoice Input = "voice"
)

// capture produces utterances for a session until the returned context ends.
type capture interface {
	Start(ctx context.Context, sessionID string) (context.Context, context.CancelCauseFunc)
}

const fallbackReply = "Sorry, I didn't catch that. Could you say it again?"

// Service drives one conversation: utterances come from stdin or the microphone,
// replies go to the output writer.
type Service struct {
	cfg         *config.Config
	agentSvc    *agent.Service
	wellnessSvc *wellness.Service
	coffeeSvc   *coffee.Service
	queueSvc    *queue.Service
	transcriber func() (capture, error)

	in  io.Reader
	out io.Writer
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:         do.MustInvoke[*config.Config](di),
		agentSvc:    do.MustInvoke[*agent.Service](di),
		wellnessSvc: do.MustInvoke[*wellness.Service](di),
		coffeeSvc:   do.MustInvoke[*coffee.Service](di),
		queueSvc:    do.MustInvoke[*queue.Service](di),
		transcriber: func() (capture, error) {
			svc, err := do.Invoke[*transcribe.Service](di)
			if err != nil {
				return nil, err
			}
			return svc, nil
		},
		in:  os.Stdin,
		out: os.Stdout,
	}, nil
}

// dialogue is the session-bound part of a running conversation.
type dialogue struct {
	id       string
	greeting string
	conv     *agent.Conversation
	finished func() bool
	close    func()
	// outcome lists log attributes describing what the session achieved.
	outcome func() []any
}

func (s *Service) open(ctx context.Context, mode Mode) (*dialogue, error) {
	id := session.NewID()

	switch mode {
	case ModeWellness:
		sess, err := s.wellnessSvc.Sessions().Open(ctx, id)
		if err != nil {
			return nil, err
		}

		return &dialogue{
			id:       id,
			greeting: wellnessGreeting(sess.HistorySummary()),
			conv:     s.agentSvc.NewConversation(id, sess.Instructions(), agent.BindTools(tools.Wellness(), sess)),
			finished: sess.Saved,
			close:    func() { s.wellnessSvc.Sessions().Close(id) },
			outcome: func() []any {
				return []any{"saved", sess.Saved(), "duration", time.Since(sess.StartedAt())}
			},
		}, nil

	case ModeCoffee:
		sess, err := s.coffeeSvc.Sessions().Open(ctx, id)
		if err != nil {
			return nil, err
		}

		return &dialogue{
			id:       id,
			greeting: fmt.Sprintf("Hi, welcome to %s! What can I get started for you?", s.cfg.Coffee.ShopName),
			conv:     s.agentSvc.NewConversation(id, s.coffeeSvc.Instructions(), agent.BindTools(tools.Coffee(), sess)),
			finished: func() bool { return false },
			close:    func() { s.coffeeSvc.Sessions().Close(id) },
			outcome: func() []any {
				return []any{"orders_placed", sess.Placed()}
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown mode %q", mode)
}

func wellnessGreeting(historySummary string) string {
	if historySummary == wellness.NoHistorySummary {
		return "Hi, I'm your daily wellness companion. How are you feeling today?"
	}

	return "Welcome back! Good to hear from you again. How are you feeling today?"
}

// Run holds one conversation until the input ends, the context is cancelled or a
// wellness check-in is saved. A voice capture failure is returned as an error.
func (s *Service) Run(ctx context.Context, mode Mode, input Input) error {
	d, err := s.open(ctx, mode)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer d.close()

	slog.Info("Session started", "session_id", d.id, "mode", mode, "input", input)
	defer func() {
		attrs := append([]any{"session_id", d.id, "turns", d.conv.Transcript().Total()}, d.outcome()...)
		slog.Info("Session ended", attrs...)
		slog.Debug("Transcript", "session_id", d.id, "text", d.conv.Transcript().Format())
	}()

	var (
		inputDone <-chan struct{}
		inputErr  = func() error { return nil }
	)

	switch input {
	case InputText:
		readCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		done := make(chan struct{})
		go s.readLines(readCtx, d.id, done)
		inputDone = done
	case InputVoice:
		transcriber, err := s.transcriber()
		if err != nil {
			return fmt.Errorf("failed to init transcription: %w", err)
		}
		transcribeCtx, cancel := transcriber.Start(ctx, d.id)
		defer cancel(nil)
		inputDone = transcribeCtx.Done()
		inputErr = func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := context.Cause(transcribeCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("voice capture stopped: %w", err)
			}
			return nil
		}
	default:
		return fmt.Errorf("unknown input %q", input)
	}

	s.say(d.greeting)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return nil
			}
			if s.handle(ctx, d, msg) {
				return nil
			}
		case <-inputDone:
			s.drain(ctx, d)
			return inputErr()
		}
	}
}

// handle answers one utterance and reports whether the conversation is over.
func (s *Service) handle(ctx context.Context, d *dialogue, msg queue.Utterance) bool {
	if msg.SessionID != d.id {
		slog.Warn("Utterance for another session dropped", "session_id", msg.SessionID)
		return false
	}

	start := time.Now()

	reply, err := d.conv.Reply(ctx, msg.Text)
	if err != nil {
		slog.Warn("Reply error", "session_id", d.id, "error", err)
		reply = fallbackReply
	}

	slog.Info("Processed utterance",
		"session_id", d.id,
		"text", msg.Text,
		"duration", time.Since(start),
	)

	s.say(reply)

	return d.finished()
}

func (s *Service) drain(ctx context.Context, d *dialogue) {
	for {
		select {
		case msg, ok := <-s.queueSvc.Channel():
			if !ok || s.handle(ctx, d, msg) {
				return
			}
		default:
			return
		}
	}
}

// readLines queues every non-blank stdin line, waiting for the conversation to catch
// up instead of dropping input.
func (s *Service) readLines(ctx context.Context, sessionID string, done chan<- struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if err := s.queueSvc.Put(ctx, sessionID, text); err != nil {
			slog.Debug("Input reading stopped", "session_id", sessionID, "error", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("Input read error", "error", err)
	}
}

func (s *Service) say(text string) {
	fmt.Fprintf(s.out, "assistant> %s\n", text)
}
