package main

import (
	"context"
	"fmt"
	"time"

	"agriexpert/agronomy"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// MLClient talks to the external advisory model. Strictly best-effort: the
// caller treats any error as "no advice" and falls back to the rule-based
// outcome.
type MLClient struct {
	http *resty.Client
	log  *zap.Logger
}

type mlPredictReq struct {
	SoilType   string  `json:"soilType"`
	PH         float64 `json:"pH"`
	Moisture   float64 `json:"moisture"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

type mlPredictResp struct {
	Crop       string  `json:"crop"`
	Fertilizer string  `json:"fertilizer"`
	Confidence float64 `json:"confidence"`
}

// NewMLClient returns a client for baseURL, or a disabled client when the URL
// is empty.
func NewMLClient(baseURL string, log *zap.Logger) *MLClient {
	if baseURL == "" {
		return &MLClient{log: log}
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &MLClient{http: client, log: log}
}

// Predict asks the model for advice on a reading. The 3s client timeout keeps
// a slow model from stalling the submission.
func (c *MLClient) Predict(ctx context.Context, r agronomy.Reading) (agronomy.MLAdvice, error) {
	if c.http == nil {
		return agronomy.MLAdvice{}, fmt.Errorf("ml service not configured")
	}

	var out mlPredictResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(mlPredictReq{
			SoilType:   string(r.SoilType),
			PH:         r.PH,
			Moisture:   r.Moisture,
			Nitrogen:   r.Nitrogen,
			Phosphorus: r.Phosphorus,
			Potassium:  r.Potassium,
		}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return agronomy.MLAdvice{}, fmt.Errorf("ml call failed: %w", err)
	}
	if resp.IsError() {
		return agronomy.MLAdvice{}, fmt.Errorf("ml non-2xx: %s", resp.Status())
	}

	return agronomy.MLAdvice{
		Crop:       out.Crop,
		Fertilizer: out.Fertilizer,
		Confidence: out.Confidence,
	}, nil
}
