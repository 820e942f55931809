package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	Port            string
	MLServiceURL    string
	WeatherAPIURL   string
	WeatherAPIKey   string
	WeatherLocation string
	LogLevel        string
	LogFormat       string
}

func mustConfig() Config {
	// Load .env if present; real env vars win either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return Config{
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "agriexpert"),
		JWTSecret:       getenv("JWT_SECRET", "change_me"),
		Port:            getenv("PORT", "8080"),
		MLServiceURL:    getenv("ML_API_URL", ""),
		WeatherAPIURL:   getenv("WEATHER_API_URL", "https://api.openweathermap.org"),
		WeatherAPIKey:   getenv("WEATHER_API_KEY", ""),
		WeatherLocation: getenv("WEATHER_LOCATION", "Dhaka"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
