package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWeatherClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Dhaka", q.Get("q"))
		assert.Equal(t, "k", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Dhaka",
			"main": {"temp": 31.4, "humidity": 78},
			"wind": {"speed": 3.2},
			"rain": {"1h": 0.6}
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, "k", zap.NewNop())
	snap, err := c.Fetch(context.Background(), "Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", snap.Location)
	assert.Equal(t, 31.4, snap.TemperatureC)
	assert.Equal(t, 78.0, snap.HumidityPct)
	assert.Equal(t, 0.6, snap.PrecipitationMm)
	assert.Equal(t, 3.2, snap.WindSpeedMps)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestWeatherClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, "k", zap.NewNop())
	_, err := c.Fetch(context.Background(), "Dhaka")
	assert.Error(t, err)
}

func TestWeatherClientNoKey(t *testing.T) {
	c := NewWeatherClient("https://api.openweathermap.org", "", zap.NewNop())
	_, err := c.Fetch(context.Background(), "Dhaka")
	assert.Error(t, err)
}
