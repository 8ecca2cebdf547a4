package speechkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

// Handle is one streaming recognition call. Audio goes in with Send, final
// phrases come out of Recv.
type Handle struct {
	client   stt.Recognizer_RecognizeStreamingClient
	cancel   context.CancelFunc
	language string
}

const SampleRate = 16000

func (h *Handle) Send(content []byte) error {
	var req stt.StreamingRequest
	req.SetChunk(&stt.AudioChunk{
		Data: content,
	})

	return h.client.Send(&req)
}

func (h *Handle) SendConfig() error {
	var audioFormatOpts stt.AudioFormatOptions
	audioFormatOpts.SetRawAudio(&stt.RawAudio{
		AudioEncoding:     stt.RawAudio_LINEAR16_PCM,
		SampleRateHertz:   SampleRate,
		AudioChannelCount: 1,
	})

	var eouClassifier stt.EouClassifierOptions
	eouClassifier.SetDefaultClassifier(&stt.DefaultEouClassifier{
		Type:                       stt.DefaultEouClassifier_HIGH,
		MaxPauseBetweenWordsHintMs: 500,
	})

	var req stt.StreamingRequest
	req.SetSessionOptions(&stt.StreamingOptions{
		RecognitionModel: &stt.RecognitionModelOptions{
			Model:       "general",
			AudioFormat: &audioFormatOpts,
			LanguageRestriction: &stt.LanguageRestrictionOptions{
				RestrictionType: stt.LanguageRestrictionOptions_WHITELIST,
				LanguageCode:    []string{h.language},
			},
		},
		EouClassifier: &eouClassifier,
	})

	return h.client.Send(&req)
}

// Recv waits for the next recognition event and returns the best hypothesis of a
// finished phrase. Partial results yield an empty string.
func (h *Handle) Recv() (string, error) {
	res, err := h.client.Recv()
	if err != nil {
		return "", fmt.Errorf("failed to receive stt: %w", err)
	}

	final := res.GetFinal()
	if final == nil {
		return "", nil
	}

	for _, alt := range final.Alternatives {
		if text := strings.TrimSpace(alt.Text); text != "" {
			return text, nil
		}
	}

	return "", nil
}

func (h *Handle) Close() error {
	h.cancel()
	return nil
}
