package coffee

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voicedesk/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIsComplete(t *testing.T) {
	full := Order{DrinkType: "latte", Size: "medium", Milk: "oat milk", Name: "Sam"}
	assert.True(t, full.IsComplete())
	assert.Empty(t, full.MissingFields())

	withExtras := full
	withExtras.Extras = []string{"vanilla syrup", "extra shot"}
	assert.True(t, withExtras.IsComplete())

	assert.False(t, Order{}.IsComplete())
	assert.Equal(t, []string{"drinkType", "size", "milk", "name"}, Order{}.MissingFields())
	assert.Equal(t, []string{"milk"}, Order{DrinkType: "latte", Size: "small", Name: "Sam"}.MissingFields())
	assert.Equal(t, []string{"drinkType", "name"}, Order{Size: "small", Milk: "whole", Extras: []string{"x"}}.MissingFields())
}

func TestOrderDescribe(t *testing.T) {
	assert.Equal(t, "drink", Order{}.Describe())
	assert.Equal(t, "medium latte with oat milk and vanilla syrup for Sam", Order{
		DrinkType: "latte",
		Size:      "medium",
		Milk:      "oat milk",
		Extras:    []string{"vanilla syrup"},
		Name:      "Sam",
	}.Describe())
}

func TestNormalizeField(t *testing.T) {
	for in, want := range map[string]string{
		"drinkType":  FieldDrinkType,
		"DRINK_TYPE": FieldDrinkType,
		" size ":     FieldSize,
		"milk":       FieldMilk,
		"customer":   FieldName,
	} {
		got, ok := normalizeField(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := normalizeField("temperature")
	assert.False(t, ok)
}

func fixedStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(filepath.Join(t.TempDir(), "orders"))
	store.now = func() time.Time {
		return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	}

	return store
}

func TestSaveOrderWritesFileAndResets(t *testing.T) {
	ctx := context.Background()
	store := fixedStore(t)
	sess := NewSession("s1", store, config.Menu{})

	sess.SetField(ctx, "drinkType", "latte")
	sess.SetField(ctx, "size", "medium")
	sess.SetField(ctx, "milk", "oat milk")
	sess.AddExtra(ctx, "vanilla syrup")
	sess.SetField(ctx, "name", "Sam")

	reply, err := sess.SaveOrder(ctx)
	require.NoError(t, err)
	assert.Contains(t, reply, "Sam")

	files, err := filepath.Glob(filepath.Join(store.Dir(), "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Regexp(t, `^order_20240101_100000_[0-9a-f]{8}\.json$`, filepath.Base(files[0]))

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "latte", raw["drinkType"])
	assert.Equal(t, "medium", raw["size"])
	assert.Equal(t, "oat milk", raw["milk"])
	assert.Equal(t, []any{"vanilla syrup"}, raw["extras"])
	assert.Equal(t, "Sam", raw["name"])
	assert.Equal(t, "received", raw["status"])
	assert.NotEmpty(t, raw["timestamp"])

	snapshot := sess.Snapshot()
	assert.Empty(t, snapshot.DrinkType)
	assert.Empty(t, snapshot.Size)
	assert.Empty(t, snapshot.Milk)
	assert.Empty(t, snapshot.Extras)
	assert.Empty(t, snapshot.Name)
	assert.Equal(t, 1, sess.Placed())
}

func TestSaveOrderRefusesIncomplete(t *testing.T) {
	ctx := context.Background()
	store := fixedStore(t)
	sess := NewSession("s1", store, config.Menu{})

	sess.SetField(ctx, "drink", "mocha")
	sess.SetField(ctx, "name", "Kim")

	reply, err := sess.SaveOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "I can't place the order yet. Still missing: size, milk.", reply)

	orders, err := store.Orders()
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, "mocha", sess.Snapshot().DrinkType)
}

func TestSeveralOrdersInOneSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "orders"))
	sess := NewSession("s1", store, config.Menu{})

	for _, name := range []string{"Ann", "Bob"} {
		sess.SetField(ctx, "drinkType", "espresso")
		sess.SetField(ctx, "size", "small")
		sess.SetField(ctx, "milk", "none")
		sess.SetField(ctx, "name", name)
		_, err := sess.SaveOrder(ctx)
		require.NoError(t, err)
	}

	orders, err := store.Orders()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.ElementsMatch(t, []string{"Ann", "Bob"}, []string{orders[0].Name, orders[1].Name})
	for _, o := range orders {
		assert.Equal(t, StatusReceived, o.Status)
		assert.Empty(t, o.Extras)
	}
}

func TestSetFieldValidation(t *testing.T) {
	ctx := context.Background()
	menu := config.Menu{
		Sizes:  []string{"small", "medium", "large"},
		Extras: []string{"vanilla syrup"},
	}
	sess := NewSession("s1", fixedStore(t), menu)

	assert.Contains(t, sess.SetField(ctx, "temperature", "hot"), "I can set drinkType, size, milk or name.")
	assert.Equal(t, "What size would you like?", sess.SetField(ctx, "size", "  "))
	assert.Equal(t, "Sorry, we don't have huge. For size we have small, medium or large.", sess.SetField(ctx, "size", "huge"))
	assert.Equal(t, "Got it, size is Large.", sess.SetField(ctx, "size", "Large"))
	assert.Equal(t, "Got it, drinkType is anything goes.", sess.SetField(ctx, "drinkType", "anything goes"))

	assert.Contains(t, sess.AddExtra(ctx, "sprinkles"), "Sorry, we don't have sprinkles.")
	assert.Equal(t, "Added vanilla syrup.", sess.AddExtra(ctx, "vanilla syrup"))

	order := sess.Snapshot()
	assert.Equal(t, "Large", order.Size)
	assert.Equal(t, []string{"vanilla syrup"}, order.Extras)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	sess := NewSession("s1", fixedStore(t), config.Menu{})

	assert.Equal(t, "The order so far is a drink. Still missing: drinkType, size, milk, name.", sess.Status(ctx))

	sess.SetField(ctx, "drinkType", "latte")
	sess.SetField(ctx, "size", "large")
	sess.SetField(ctx, "milk", "whole milk")
	sess.SetField(ctx, "name", "Jo")
	assert.Equal(t, "The order is a large latte with whole milk for Jo. Everything needed is known.", sess.Status(ctx))
}

func TestServiceSessionsAreIndependent(t *testing.T) {
	cfg := &config.Config{}
	svc := NewService(cfg, NewStore(filepath.Join(t.TempDir(), "orders")))
	ctx := context.Background()

	a, err := svc.Sessions().Open(ctx, "a")
	require.NoError(t, err)
	b, err := svc.Sessions().Open(ctx, "b")
	require.NoError(t, err)

	a.SetField(ctx, "drinkType", "latte")
	b.SetField(ctx, "drinkType", "tea")

	assert.Equal(t, "latte", a.Snapshot().DrinkType)
	assert.Equal(t, "tea", b.Snapshot().DrinkType)
}

func TestInstructionsIncludeMenu(t *testing.T) {
	prompt := Instructions("Brew Haven", config.Menu{Sizes: []string{"small", "large"}})
	assert.Contains(t, prompt, "Brew Haven")
	assert.Contains(t, prompt, "Sizes on the menu: small or large.")
	assert.NotContains(t, prompt, "Drinks on the menu")
	assert.NotContains(t, prompt, "{menu}")
}
