package tools

import (
	"context"
	"path/filepath"
	"testing"

	"voicedesk/app/config"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/wellness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find[S any](t *testing.T, list []Tool[S], name string) Tool[S] {
	t.Helper()

	for _, tool := range list {
		if tool.Name == name {
			return tool
		}
	}

	t.Fatalf("tool %s not found", name)
	return Tool[S]{}
}

func TestParseInput(t *testing.T) {
	params := []Param{{Name: "objectives", Type: TypeStringList}}

	args, err := ParseInput(`{"objectives": ["a", "b"]}`, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, args.Strings("objectives"))

	args, err = ParseInput(`["c"]`, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, args.Strings("objectives"))

	args, err = ParseInput(`"walk, read"`, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"walk", " read"}, args.Strings("objectives"))

	args, err = ParseInput("  ", params)
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = ParseInput(`{"broken"`, params)
	require.Error(t, err)
}

func TestArgs(t *testing.T) {
	args := Args{"s": "x", "n": 3.0, "list": []any{"a", 1.0, nil}}

	assert.Equal(t, "x", args.String("s"))
	assert.Equal(t, "3", args.String("n"))
	assert.Equal(t, "", args.String("absent"))
	assert.Equal(t, []string{"a", "1"}, args.Strings("list"))
	assert.Nil(t, args.Strings("absent"))
}

func TestMissing(t *testing.T) {
	params := []Param{
		{Name: "mood", Required: true},
		{Name: "energy", Required: true},
		{Name: "note"},
	}

	assert.Equal(t, []string{"energy"}, Missing(params, Args{"mood": "ok"}))
	assert.Empty(t, Missing(params, Args{"mood": "ok", "energy": "low"}))
}

func TestInputHint(t *testing.T) {
	tool := find(t, Wellness(), RecordObjectives)
	assert.Contains(t, tool.InputHint(), "objectives (string[])")

	assert.Equal(t, "No input required.", find(t, Coffee(), SaveOrder).InputHint())
}

func TestWellnessToolsDriveSession(t *testing.T) {
	ctx := context.Background()
	store := wellness.NewStore(filepath.Join(t.TempDir(), "log.json"), false)
	sess := wellness.NewSession("s1", store, wellness.Vocabulary{})
	catalog := Wellness()

	_, err := find(t, catalog, RecordMoodAndEnergy).Bind(sess)(ctx, Args{"mood": "tired", "energy": "low"})
	require.NoError(t, err)

	reply, err := find(t, catalog, CompleteCheckin).Bind(sess)(ctx, Args{"final_advice_summary": "rest"})
	require.NoError(t, err)
	assert.Contains(t, reply, "I can't finish yet")

	_, err = find(t, catalog, RecordObjectives).Bind(sess)(ctx, Args{"objectives": []any{"rest"}})
	require.NoError(t, err)

	reply, err = find(t, catalog, CompleteCheckin).Bind(sess)(ctx, Args{"final_advice_summary": "rest"})
	require.NoError(t, err)
	assert.Contains(t, reply, "recap")
	assert.Len(t, store.History(), 1)
}

func TestCoffeeToolsDriveSession(t *testing.T) {
	ctx := context.Background()
	store := coffee.NewStore(filepath.Join(t.TempDir(), "orders"))
	sess := coffee.NewSession("s1", store, config.Menu{})
	catalog := Coffee()

	set := find(t, catalog, SetOrderField).Bind(sess)
	for field, value := range map[string]string{"drinkType": "latte", "size": "medium", "milk": "oat milk", "name": "Sam"} {
		_, err := set(ctx, Args{"field": field, "value": value})
		require.NoError(t, err)
	}
	_, err := find(t, catalog, AddExtra).Bind(sess)(ctx, Args{"extra": "vanilla syrup"})
	require.NoError(t, err)

	status, err := find(t, catalog, GetOrderStatus).Bind(sess)(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, status, "Everything needed is known")

	_, err = find(t, catalog, SaveOrder).Bind(sess)(ctx, nil)
	require.NoError(t, err)

	orders, err := store.Orders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, []string{"vanilla syrup"}, orders[0].Extras)
	assert.Empty(t, sess.Snapshot().DrinkType)
}
