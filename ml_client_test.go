package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agriexpert/agronomy"
	"agriexpert/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReading() agronomy.Reading {
	return agronomy.Reading{
		SoilType:   models.SoilLoamy,
		PH:         6.5,
		Moisture:   40,
		Nitrogen:   25,
		Phosphorus: 25,
		Potassium:  25,
	}
}

func TestMLClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var in mlPredictReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "loamy", in.SoilType)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mlPredictResp{Crop: "Wheat", Fertilizer: "Urea", Confidence: 0.92})
	}))
	defer srv.Close()

	c := NewMLClient(srv.URL, zap.NewNop())
	advice, err := c.Predict(context.Background(), testReading())
	require.NoError(t, err)
	assert.Equal(t, "Wheat", advice.Crop)
	assert.Equal(t, "Urea", advice.Fertilizer)
	assert.Equal(t, 0.92, advice.Confidence)
}

func TestMLClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewMLClient(srv.URL, zap.NewNop())
	_, err := c.Predict(context.Background(), testReading())
	assert.Error(t, err)
}

func TestMLClientNotConfigured(t *testing.T) {
	c := NewMLClient("", zap.NewNop())
	_, err := c.Predict(context.Background(), testReading())
	assert.Error(t, err)
}
