package main

import (
	"context"
	"fmt"
	"time"

	"agriexpert/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WeatherClient fetches current conditions from OpenWeather. Failures are
// recovered by the handler with the newest stored snapshot.
type WeatherClient struct {
	http   *resty.Client
	apiKey string
	log    *zap.Logger
}

type openWeatherResp struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

func NewWeatherClient(baseURL, apiKey string, log *zap.Logger) *WeatherClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("Accept", "application/json")
	return &WeatherClient{http: client, apiKey: apiKey, log: log}
}

// Fetch returns the current conditions for location.
func (c *WeatherClient) Fetch(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return models.WeatherSnapshot{}, fmt.Errorf("weather api key not configured")
	}

	var out openWeatherResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     location,
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(&out).
		Get("/data/2.5/weather")
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("weather call failed: %w", err)
	}
	if resp.IsError() {
		return models.WeatherSnapshot{}, fmt.Errorf("weather non-2xx: %s", resp.Status())
	}

	return models.WeatherSnapshot{
		Location:        out.Name,
		TemperatureC:    out.Main.Temp,
		HumidityPct:     out.Main.Humidity,
		PrecipitationMm: out.Rain.OneHour,
		WindSpeedMps:    out.Wind.Speed,
		Timestamp:       time.Now().UTC(),
	}, nil
}
