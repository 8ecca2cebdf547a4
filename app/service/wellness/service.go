package wellness

import (
	"context"
	"fmt"
	"strings"

	"voicedesk/app/config"
	"voicedesk/app/service/session"
	"voicedesk/app/util/vocab"

	_ "embed"

	"github.com/samber/do"
)

//go:embed instructions.txt
var instructionsTemplate string

type Service struct {
	cfg      *config.Config
	store    *Store
	sessions *session.Registry[*Session]
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg, NewStore(cfg.Wellness.LogFile, cfg.Wellness.Lock)), nil
}

func NewService(cfg *config.Config, store *Store) *Service {
	vocabulary := Vocabulary{
		Moods:    cfg.Wellness.Moods,
		Energies: cfg.Wellness.Energies,
	}

	return &Service{
		cfg:   cfg,
		store: store,
		sessions: session.NewRegistry(func(_ context.Context, id string) (*Session, error) {
			return NewSession(id, store, vocabulary), nil
		}),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Sessions() *session.Registry[*Session] {
	return s.sessions
}

// Instructions fills the assistant prompt with the history summary and, when the
// vocabulary is restricted, the accepted words.
func Instructions(historySummary string, vocabulary Vocabulary) string {
	var extra strings.Builder
	if len(vocabulary.Moods) > 0 {
		fmt.Fprintf(&extra, "Record the mood as one of: %s.\n", vocab.List(vocabulary.Moods))
	}
	if len(vocabulary.Energies) > 0 {
		fmt.Fprintf(&extra, "Record the energy as one of: %s.\n", vocab.List(vocabulary.Energies))
	}

	templateValues := map[string]string{
		"history":    historySummary,
		"vocabulary": extra.String(),
	}

	prompt := instructionsTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}

	return prompt
}
