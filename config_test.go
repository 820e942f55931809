package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := mustConfig()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "agriexpert", cfg.MongoDB)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Dhaka", cfg.WeatherLocation)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_DB", "agritest")
	t.Setenv("PORT", "9999")
	t.Setenv("ML_API_URL", "http://ml.internal:8000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := mustConfig()

	assert.Equal(t, "agritest", cfg.MongoDB)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "http://ml.internal:8000", cfg.MLServiceURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
