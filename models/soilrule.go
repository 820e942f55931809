package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RuleStatus — proposal moderation state. Only APPROVED rules are matched.
type RuleStatus string

const (
	RulePending  RuleStatus = "PENDING"
	RuleApproved RuleStatus = "APPROVED"
	RuleRejected RuleStatus = "REJECTED"
)

// Range is an inclusive [Min, Max] window over one soil parameter.
type Range struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Contains reports whether v falls inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Valid reports whether the window is well-formed (Min <= Max).
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// SoilRule maps a soil type plus five parameter windows to suggestions.
// Created PENDING by a researcher proposal (or APPROVED directly by an admin),
// reviewed once into APPROVED or REJECTED.
type SoilRule struct {
	ID                       primitive.ObjectID  `bson:"_id,omitempty"        json:"id"`
	SoilType                 SoilType            `bson:"soilType"             json:"soilType"`
	PH                       Range               `bson:"pH"                   json:"pH"`
	Moisture                 Range               `bson:"moisture"             json:"moisture"`
	Nitrogen                 Range               `bson:"nitrogen"             json:"nitrogen"`
	Phosphorus               Range               `bson:"phosphorus"           json:"phosphorus"`
	Potassium                Range               `bson:"potassium"            json:"potassium"`
	CropSuggestion           string              `bson:"cropSuggestion"       json:"cropSuggestion"`
	FertilizerSuggestion     string              `bson:"fertilizerSuggestion" json:"fertilizerSuggestion"`
	IrrigationRecommendation string              `bson:"irrigationRecommendation,omitempty" json:"irrigationRecommendation,omitempty"`
	Status                   RuleStatus          `bson:"status"               json:"status"`
	CreatedBy                primitive.ObjectID  `bson:"createdBy,omitempty"  json:"createdBy,omitempty"`
	ReviewedBy               *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	UpdatedOn                time.Time           `bson:"updatedOn"            json:"updatedOn"`
}
