package main

import (
	"strings"

	"agriexpert/agronomy"
	"agriexpert/models"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type soilTestReq struct {
	SoilType   string  `json:"soilType"`
	PH         float64 `json:"pH"`
	Moisture   float64 `json:"moisture"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

func (r soilTestReq) reading() agronomy.Reading {
	return agronomy.Reading{
		SoilType:   models.SoilType(strings.ToLower(strings.TrimSpace(r.SoilType))),
		PH:         r.PH,
		Moisture:   r.Moisture,
		Nitrogen:   r.Nitrogen,
		Phosphorus: r.Phosphorus,
		Potassium:  r.Potassium,
	}
}

type submitResp struct {
	Message             string                 `json:"message"`
	SoilTest            models.SoilTest        `json:"soilTest"`
	Recommendation      *models.Recommendation `json:"recommendation,omitempty"`
	RecommendationError string                 `json:"recommendationError,omitempty"`
}

type ruleReq struct {
	SoilType                 string       `json:"soilType"`
	PH                       models.Range `json:"pH"`
	Moisture                 models.Range `json:"moisture"`
	Nitrogen                 models.Range `json:"nitrogen"`
	Phosphorus               models.Range `json:"phosphorus"`
	Potassium                models.Range `json:"potassium"`
	CropSuggestion           string       `json:"cropSuggestion"`
	FertilizerSuggestion     string       `json:"fertilizerSuggestion"`
	IrrigationRecommendation string       `json:"irrigationRecommendation,omitempty"`
}

func (r ruleReq) draft() agronomy.RuleDraft {
	return agronomy.RuleDraft{
		SoilType:                 models.SoilType(strings.ToLower(strings.TrimSpace(r.SoilType))),
		PH:                       r.PH,
		Moisture:                 r.Moisture,
		Nitrogen:                 r.Nitrogen,
		Phosphorus:               r.Phosphorus,
		Potassium:                r.Potassium,
		CropSuggestion:           strings.TrimSpace(r.CropSuggestion),
		FertilizerSuggestion:     strings.TrimSpace(r.FertilizerSuggestion),
		IrrigationRecommendation: strings.TrimSpace(r.IrrigationRecommendation),
	}
}

type reviewRuleReq struct {
	Action string `json:"action"`
}

type reviewRecommendationReq struct {
	Action                   string `json:"action"`
	CropSuggestion           string `json:"cropSuggestion,omitempty"`
	FertilizerSuggestion     string `json:"fertilizerSuggestion,omitempty"`
	IrrigationRecommendation string `json:"irrigationRecommendation,omitempty"`
}

type upsertUserReq struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type manualRecommendationReq struct {
	CropSuggestion           string `json:"cropSuggestion"`
	FertilizerSuggestion     string `json:"fertilizerSuggestion"`
	IrrigationRecommendation string `json:"irrigationRecommendation,omitempty"`
}

type soilTestWithRecommendation struct {
	models.SoilTest
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
}

type statsResp struct {
	Users struct {
		Total       int64 `json:"total"`
		Farmers     int64 `json:"farmers"`
		Researchers int64 `json:"researchers"`
		Govt        int64 `json:"govt"`
		Admins      int64 `json:"admins"`
	} `json:"users"`
	Tests           int64 `json:"tests"`
	Recommendations int64 `json:"recommendations"`
}

type soilInsight struct {
	SoilType models.SoilType `bson:"_id"   json:"soilType"`
	Count    int64           `bson:"count" json:"count"`
	AvgPH    float64         `bson:"avgPH" json:"avgPH"`
}

type cropTrend struct {
	Crop  string `bson:"_id"   json:"crop"`
	Count int64  `bson:"count" json:"count"`
}
