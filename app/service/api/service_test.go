package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"voicedesk/app/config"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/wellness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Wellness.LogFile = filepath.Join(dir, "wellness_log.json")
	cfg.Coffee.OrdersDir = filepath.Join(dir, "orders")

	return NewService(cfg,
		wellness.NewService(cfg, wellness.NewStore(cfg.Wellness.LogFile, false)),
		coffee.NewService(cfg, coffee.NewStore(cfg.Coffee.OrdersDir)),
	)
}

func get(t *testing.T, s *Service, path string, out any) int {
	t.Helper()

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(body, out))
	}

	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, newTestService(t), "/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestEmptyRecords(t *testing.T) {
	s := newTestService(t)

	var history []wellness.Entry
	assert.Equal(t, http.StatusOK, get(t, s, "/wellness/history", &history))
	assert.Empty(t, history)

	var summary map[string]string
	assert.Equal(t, http.StatusOK, get(t, s, "/wellness/summary", &summary))
	assert.Equal(t, wellness.NoHistorySummary, summary["summary"])

	var orders []coffee.Receipt
	assert.Equal(t, http.StatusOK, get(t, s, "/coffee/orders", &orders))
	assert.Empty(t, orders)
}

func TestSavedRecords(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	checkIn := wellness.NewSession("w1", s.wellnessSvc.Store(), wellness.Vocabulary{})
	checkIn.RecordMoodAndEnergy(ctx, "tired", "low")
	checkIn.RecordObjectives(ctx, []string{"rest"})
	_, err := checkIn.CompleteCheckin(ctx, "nap")
	require.NoError(t, err)

	order := coffee.NewSession("c1", s.coffeeSvc.Store(), config.Menu{})
	order.SetField(ctx, "drinkType", "latte")
	order.SetField(ctx, "size", "small")
	order.SetField(ctx, "milk", "oat milk")
	order.SetField(ctx, "name", "Sam")
	_, err = order.SaveOrder(ctx)
	require.NoError(t, err)

	var history []wellness.Entry
	get(t, s, "/wellness/history", &history)
	require.Len(t, history, 1)
	assert.Equal(t, "tired", history[0].Mood)

	var summary map[string]string
	get(t, s, "/wellness/summary", &summary)
	assert.Contains(t, summary["summary"], "User felt tired with low energy.")

	var orders []coffee.Receipt
	get(t, s, "/coffee/orders", &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "Sam", orders[0].Name)
}

func TestUnknownRoute(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusNotFound, get(t, newTestService(t), "/nope", &body))
	assert.NotEmpty(t, body["error"])
}
