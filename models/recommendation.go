package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecSource — provenance of a recommendation.
type RecSource string

const (
	SourceManual   RecSource = "manual"   // awaiting or produced by human review
	SourceML       RecSource = "ml"       // ML service answer, carries a confidence score
	SourceModified RecSource = "modified" // suggestions edited during review
	SourceRule     RecSource = "rule"     // matched an approved soil rule
	SourceProposed RecSource = "proposed" // standalone rule-change suggestion, no soil test
)

// RecStatus — review state of a recommendation.
type RecStatus string

const (
	RecApproved RecStatus = "approved"
	RecPending  RecStatus = "pending"
	RecRejected RecStatus = "rejected"
)

// Recommendation — the crop/fertilizer/irrigation outcome for one soil test,
// or a standalone proposal when Source is "proposed" (then SoilTest is nil).
// At most one non-proposed recommendation exists per soil test; a unique
// partial index on soilTest enforces it. Never physically deleted.
type Recommendation struct {
	ID                       primitive.ObjectID  `bson:"_id,omitempty"        json:"id"`
	SoilTest                 *primitive.ObjectID `bson:"soilTest,omitempty"   json:"soilTest,omitempty"`
	CropSuggestion           string              `bson:"cropSuggestion"       json:"cropSuggestion"`
	FertilizerSuggestion     string              `bson:"fertilizerSuggestion" json:"fertilizerSuggestion"`
	IrrigationRecommendation string              `bson:"irrigationRecommendation,omitempty" json:"irrigationRecommendation,omitempty"`
	GeneratedBy              *primitive.ObjectID `bson:"generatedBy,omitempty" json:"generatedBy,omitempty"` // nil = system (rule match)
	Source                   RecSource           `bson:"source"               json:"source"`
	Status                   RecStatus           `bson:"status"               json:"status"`
	ReviewedBy               *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ConfidenceScore          *float64            `bson:"confidenceScore,omitempty" json:"confidenceScore,omitempty"`

	// Parameter snapshot kept for audit on manual/proposed records
	// (min = max = submitted value for a no-match submission).
	PH         *Range `bson:"pH,omitempty"         json:"pH,omitempty"`
	Moisture   *Range `bson:"moisture,omitempty"   json:"moisture,omitempty"`
	Nitrogen   *Range `bson:"nitrogen,omitempty"   json:"nitrogen,omitempty"`
	Phosphorus *Range `bson:"phosphorus,omitempty" json:"phosphorus,omitempty"`
	Potassium  *Range `bson:"potassium,omitempty"  json:"potassium,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
