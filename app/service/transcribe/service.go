package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"voicedesk/app/client/speechkit"
	"voicedesk/app/config"
	"voicedesk/app/service/queue"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const (
	bufferSize = 4096
)

var errInputEnded = errors.New("audio input ended")

// Service turns the configured audio input into utterances on the queue.
type Service struct {
	cfg          *config.Config
	speechClient *speechkit.YandexSpeechKit
	queue        *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:          do.MustInvoke[*config.Config](di),
		speechClient: do.MustInvoke[*speechkit.YandexSpeechKit](di),
		queue:        do.MustInvoke[*queue.Service](di),
	}, nil
}

// Start captures audio in the background and queues every recognized phrase for
// sessionID. The returned context ends when capture stops.
func (s *Service) Start(ctx context.Context, sessionID string) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx)

	go s.runTranscription(ctx, cancel, sessionID)

	return ctx, cancel
}

func (s *Service) runTranscription(ctx context.Context, cancel context.CancelCauseFunc, sessionID string) {
	defer cancel(nil)

	ffmpeg, err := NewFFmpegStream(ctx, s.cfg.Voice.Input, s.cfg.Voice.InputFormat)
	if err != nil {
		cancel(fmt.Errorf("failed to create ffmpeg stream: %w", err))
		return
	}

	if err = ffmpeg.Start(); err != nil {
		cancel(fmt.Errorf("failed to start ffmpeg: %w", err))
		return
	}
	defer ffmpeg.Stop()

	audioStream := ffmpeg.GetAudioStream()

	go func() {
		cancel(s.recognize(ctx, sessionID, audioStream))
	}()

	// A clean ffmpeg exit means the input ran out, which ends the session normally.
	go func() {
		if err := ffmpeg.Wait(); err != nil {
			cancel(fmt.Errorf("ffmpeg exited: %w", err))
			return
		}
		cancel(nil)
	}()

	<-ctx.Done()

	if err = context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Transcription failed", "error", err)
	}
}

// recognize keeps opening recognition streams over the same audio until the input
// or ctx ends. SpeechKit closes a stream with EOF after its duration limit.
func (s *Service) recognize(ctx context.Context, sessionID string, audioSrc io.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			err := s.recognizeOnce(ctx, sessionID, audioSrc)
			if err == nil || errors.Is(err, errInputEnded) {
				return nil
			}

			if errors.Is(err, io.EOF) {
				slog.Debug("Recognition stream closed, reopening", "session_id", sessionID)
				continue
			}

			return fmt.Errorf("recognition failed: %w", err)
		}
	}
}

func (s *Service) recognizeOnce(ctx context.Context, sessionID string, audioSrc io.Reader) error {
	handle, err := s.speechClient.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}
	defer handle.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.streamAudio(ctx, audioSrc, handle)
	})

	g.Go(func() error {
		return s.receivePhrases(ctx, sessionID, handle)
	})

	return g.Wait()
}

func (s *Service) streamAudio(ctx context.Context, audioSrc io.Reader, handle *speechkit.Handle) error {
	if err := handle.SendConfig(); err != nil {
		return fmt.Errorf("failed to send audio config: %w", err)
	}

	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			n, err := audioSrc.Read(buffer)
			if errors.Is(err, io.EOF) {
				return errInputEnded
			}
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}

			if n == 0 {
				continue
			}

			if err = handle.Send(buffer[:n]); err != nil {
				return fmt.Errorf("failed to send audio: %w", err)
			}
		}
	}
}

func (s *Service) receivePhrases(ctx context.Context, sessionID string, handle *speechkit.Handle) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		text, err := handle.Recv()
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}

		slog.Debug("Phrase recognized", "session_id", sessionID, "text", text)
		s.queue.Add(sessionID, text)
	}
}
