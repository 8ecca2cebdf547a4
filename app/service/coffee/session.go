package coffee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"voicedesk/app/config"
	"voicedesk/app/util/vocab"
)

// Session holds the order of one customer conversation. Several orders may be
// taken one after another; the order resets after each save.
type Session struct {
	id    string
	store *Store
	menu  config.Menu

	mu     sync.Mutex
	order  Order
	placed int
}

func NewSession(id string, store *Store, menu config.Menu) *Session {
	return &Session{
		id:    id,
		store: store,
		menu:  menu,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the order in progress.
func (s *Session) Snapshot() Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.order.clone()
}

// Placed returns how many orders this session has saved.
func (s *Session) Placed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.placed
}

// SetField overwrites one required field of the order.
func (s *Session) SetField(ctx context.Context, name, value string) string {
	field, ok := normalizeField(name)
	if !ok {
		return fmt.Sprintf("I don't have a %q on the order form. I can set %s.", name, vocab.List(requiredFields))
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Sprintf("What %s would you like?", field)
	}

	if options := s.options(field); !vocab.Allowed(options, value) {
		return fmt.Sprintf("Sorry, we don't have %s. For %s we have %s.", value, field, vocab.List(options))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.set(field, value)

	slog.InfoContext(ctx, "Order field set",
		"session_id", s.id,
		"field", field,
		"value", value,
	)

	return fmt.Sprintf("Got it, %s is %s.", field, value)
}

// AddExtra appends one extra to the order.
func (s *Session) AddExtra(ctx context.Context, extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return "Which extra would you like?"
	}

	if !vocab.Allowed(s.menu.Extras, extra) {
		return fmt.Sprintf("Sorry, we don't have %s. Extras we offer are %s.", extra, vocab.List(s.menu.Extras))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.Extras = append(s.order.Extras, extra)

	slog.InfoContext(ctx, "Order extra added",
		"session_id", s.id,
		"extra", extra,
	)

	return fmt.Sprintf("Added %s.", extra)
}

// Status describes the order so far and what is still missing.
func (s *Session) Status(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := s.order.MissingFields()
	if len(missing) == 0 {
		return fmt.Sprintf("The order is a %s. Everything needed is known.", s.order.Describe())
	}

	return fmt.Sprintf("The order so far is a %s. Still missing: %s.", s.order.Describe(), strings.Join(missing, ", "))
}

// SaveOrder writes the order to disk and starts a fresh one. An incomplete order is
// refused with the list of missing fields. Storage failures are returned.
func (s *Session) SaveOrder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if missing := s.order.MissingFields(); len(missing) > 0 {
		slog.InfoContext(ctx, "Order refused, incomplete",
			"session_id", s.id,
			"missing", missing,
		)
		return fmt.Sprintf("I can't place the order yet. Still missing: %s.", strings.Join(missing, ", ")), nil
	}

	receipt, path, err := s.store.Save(s.order)
	if err != nil {
		return "", fmt.Errorf("failed to save order: %w", err)
	}

	description := s.order.Describe()
	s.order = Order{}
	s.placed++

	slog.InfoContext(ctx, "Order saved",
		"session_id", s.id,
		"path", path,
		"drink", receipt.DrinkType,
		"name", receipt.Name,
		"telegram", true,
	)

	return fmt.Sprintf("Your order is in: a %s. Thanks, %s, it'll be ready shortly!", description, receipt.Name), nil
}

func (s *Session) options(field string) []string {
	switch field {
	case FieldDrinkType:
		return s.menu.Drinks
	case FieldSize:
		return s.menu.Sizes
	case FieldMilk:
		return s.menu.Milks
	}

	return nil
}
