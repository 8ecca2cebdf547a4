package coffee

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

	return NewService(cfg, NewStore(cfg.Coffee.OrdersDir)), nil
}

func NewService(cfg *config.Config, store *Store) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		sessions: session.NewRegistry(func(_ context.Context, id string) (*Session, error) {
			return NewSession(id, store, cfg.Coffee.Menu), nil
		}),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Sessions() *session.Registry[*Session] {
	return s.sessions
}

func (s *Service) Instructions() string {
	return Instructions(s.cfg.Coffee.ShopName, s.cfg.Coffee.Menu)
}

// Instructions fills the barista prompt with the shop name and the menu, if one is configured.
func Instructions(shopName string, menu config.Menu) string {
	var lines strings.Builder
	for _, item := range []struct {
		label   string
		options []string
	}{
		{"Drinks", menu.Drinks},
		{"Sizes", menu.Sizes},
		{"Milk", menu.Milks},
		{"Extras", menu.Extras},
	} {
		if len(item.options) > 0 {
			fmt.Fprintf(&lines, "%s on the menu: %s.\n", item.label, vocab.List(item.options))
		}
	}

	templateValues := map[string]string{
		"shop_name": shopName,
		"menu":      lines.String(),
	}

	prompt := instructionsTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}

	return prompt
}
