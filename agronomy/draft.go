package agronomy

import (
	"time"

	"agriexpert/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RuleDraft is a researcher- or admin-authored candidate rule before it enters
// the store.
type RuleDraft struct {
	SoilType                 models.SoilType
	PH                       models.Range
	Moisture                 models.Range
	Nitrogen                 models.Range
	Phosphorus               models.Range
	Potassium                models.Range
	CropSuggestion           string
	FertilizerSuggestion     string
	IrrigationRecommendation string
}

// Validate checks the draft: known soil type, every window well-formed,
// crop and fertilizer suggestions present. Returns a ValidationError naming
// every offending field.
func (d RuleDraft) Validate() error {
	var bad []string
	if !models.ValidSoilType(d.SoilType) {
		bad = append(bad, "soilType")
	}
	ranges := []struct {
		name string
		r    models.Range
	}{
		{"pH", d.PH},
		{"moisture", d.Moisture},
		{"nitrogen", d.Nitrogen},
		{"phosphorus", d.Phosphorus},
		{"potassium", d.Potassium},
	}
	for _, rr := range ranges {
		if !rr.r.Valid() {
			bad = append(bad, rr.name)
		}
	}
	if d.CropSuggestion == "" {
		bad = append(bad, "cropSuggestion")
	}
	if d.FertilizerSuggestion == "" {
		bad = append(bad, "fertilizerSuggestion")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// NewProposal validates the draft and builds the PENDING rule record for it.
func NewProposal(d RuleDraft, proposer primitive.ObjectID) (models.SoilRule, error) {
	if err := d.Validate(); err != nil {
		return models.SoilRule{}, err
	}
	return models.SoilRule{
		SoilType:                 d.SoilType,
		PH:                       d.PH,
		Moisture:                 d.Moisture,
		Nitrogen:                 d.Nitrogen,
		Phosphorus:               d.Phosphorus,
		Potassium:                d.Potassium,
		CropSuggestion:           d.CropSuggestion,
		FertilizerSuggestion:     d.FertilizerSuggestion,
		IrrigationRecommendation: d.IrrigationRecommendation,
		Status:                   models.RulePending,
		CreatedBy:                proposer,
		UpdatedOn:                time.Now().UTC(),
	}, nil
}

// NewActiveRule validates the draft and builds an APPROVED rule for it
// (admin rules skip the moderation queue).
func NewActiveRule(d RuleDraft, admin primitive.ObjectID) (models.SoilRule, error) {
	rule, err := NewProposal(d, admin)
	if err != nil {
		return models.SoilRule{}, err
	}
	rule.Status = models.RuleApproved
	rule.ReviewedBy = &admin
	return rule, nil
}
