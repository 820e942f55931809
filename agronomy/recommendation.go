package agronomy

import (
	"time"

	"agriexpert/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingPlaceholder is the suggestion text on a no-match submission until an
// admin reviews it.
const PendingPlaceholder = "Pending admin review"

// ReviewAction is the admin/researcher verdict on a pending record.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ParseReviewAction validates the action string from a review request.
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApprove, ActionReject:
		return ReviewAction(s), nil
	}
	return "", &ValidationError{Fields: []string{"action"}}
}

// RuleOutcome builds the approved recommendation for a submission that matched
// rule. GeneratedBy stays nil: the system produced it.
func RuleOutcome(test models.SoilTest, rule models.SoilRule) models.Recommendation {
	return models.Recommendation{
		SoilTest:                 &test.ID,
		CropSuggestion:           rule.CropSuggestion,
		FertilizerSuggestion:     rule.FertilizerSuggestion,
		IrrigationRecommendation: rule.IrrigationRecommendation,
		Source:                   models.SourceRule,
		Status:                   models.RecApproved,
		CreatedAt:                time.Now().UTC(),
	}
}

// PendingOutcome builds the placeholder recommendation for a submission no
// approved rule matched. The five input values are snapshotted as point ranges
// (min = max = value) so a later approval can be audited and synthesized into
// a rule.
func PendingOutcome(test models.SoilTest, submitter primitive.ObjectID) models.Recommendation {
	point := func(v float64) *models.Range { return &models.Range{Min: v, Max: v} }
	return models.Recommendation{
		SoilTest:             &test.ID,
		CropSuggestion:       PendingPlaceholder,
		FertilizerSuggestion: PendingPlaceholder,
		GeneratedBy:          &submitter,
		Source:               models.SourceManual,
		Status:               models.RecPending,
		PH:                   point(test.PH),
		Moisture:             point(test.Moisture),
		Nitrogen:             point(test.Nitrogen),
		Phosphorus:           point(test.Phosphorus),
		Potassium:            point(test.Potassium),
		CreatedAt:            time.Now().UTC(),
	}
}

// MLAdvice is the answer from the external ML service.
type MLAdvice struct {
	Crop       string
	Fertilizer string
	Confidence float64
}

// ApplyMLAdvice overlays the ML answer onto the baseline outcome. The record
// is retagged source "ml" with its confidence score; status is never touched,
// so a no-match submission still waits for review.
func ApplyMLAdvice(rec *models.Recommendation, adv MLAdvice) {
	if adv.Crop == "" || adv.Fertilizer == "" {
		return
	}
	rec.CropSuggestion = adv.Crop
	rec.FertilizerSuggestion = adv.Fertilizer
	rec.Source = models.SourceML
	conf := adv.Confidence
	rec.ConfidenceScore = &conf
}

// SuggestionEdit carries reviewer-edited suggestion text.
type SuggestionEdit struct {
	Crop       string
	Fertilizer string
	Irrigation string
}

func (e *SuggestionEdit) empty() bool {
	return e == nil || (e.Crop == "" && e.Fertilizer == "" && e.Irrigation == "")
}

// ReviewRecommendation applies an admin verdict to rec in place.
//
// Approve moves pending to approved, records the reviewer and, when edits are
// present, overwrites the suggestion text and retags the record "modified".
// Reject moves pending to rejected and leaves the text alone. Re-reviewing a
// terminal record with the matching action is an idempotent no-op (changed is
// false); a conflicting action fails with ErrInvalidTransition.
func ReviewRecommendation(rec *models.Recommendation, action ReviewAction, edits *SuggestionEdit, reviewer primitive.ObjectID) (changed bool, err error) {
	if rec.Status != models.RecPending {
		if (rec.Status == models.RecApproved && action == ActionApprove) ||
			(rec.Status == models.RecRejected && action == ActionReject) {
			return false, nil
		}
		return false, ErrInvalidTransition
	}

	rec.ReviewedBy = &reviewer
	switch action {
	case ActionApprove:
		rec.Status = models.RecApproved
		if !edits.empty() {
			if edits.Crop != "" {
				rec.CropSuggestion = edits.Crop
			}
			if edits.Fertilizer != "" {
				rec.FertilizerSuggestion = edits.Fertilizer
			}
			if edits.Irrigation != "" {
				rec.IrrigationRecommendation = edits.Irrigation
			}
			rec.Source = models.SourceModified
		}
	case ActionReject:
		rec.Status = models.RecRejected
	default:
		return false, &ValidationError{Fields: []string{"action"}}
	}
	return true, nil
}

// SynthesizeRule builds an APPROVED soil rule from an approved recommendation
// and its soil test, so future matching submissions short-circuit through the
// matcher. Requires the parameter snapshot taken at submission time; returns
// false when it is absent (nothing to synthesize).
func SynthesizeRule(rec models.Recommendation, test models.SoilTest, reviewer primitive.ObjectID) (models.SoilRule, bool) {
	if rec.PH == nil || rec.Moisture == nil || rec.Nitrogen == nil ||
		rec.Phosphorus == nil || rec.Potassium == nil {
		return models.SoilRule{}, false
	}
	return models.SoilRule{
		SoilType:                 test.SoilType,
		PH:                       *rec.PH,
		Moisture:                 *rec.Moisture,
		Nitrogen:                 *rec.Nitrogen,
		Phosphorus:               *rec.Phosphorus,
		Potassium:                *rec.Potassium,
		CropSuggestion:           rec.CropSuggestion,
		FertilizerSuggestion:     rec.FertilizerSuggestion,
		IrrigationRecommendation: rec.IrrigationRecommendation,
		Status:                   models.RuleApproved,
		CreatedBy:                reviewer,
		UpdatedOn:                time.Now().UTC(),
	}, true
}

// ReviewRule applies an admin verdict to a proposed rule in place. Same
// transition discipline as ReviewRecommendation: PENDING moves once to
// APPROVED or REJECTED, matching re-review is a no-op, conflicting re-review
// fails with ErrInvalidTransition.
func ReviewRule(rule *models.SoilRule, action ReviewAction, reviewer primitive.ObjectID) (changed bool, err error) {
	if rule.Status != models.RulePending {
		if (rule.Status == models.RuleApproved && action == ActionApprove) ||
			(rule.Status == models.RuleRejected && action == ActionReject) {
			return false, nil
		}
		return false, ErrInvalidTransition
	}

	rule.ReviewedBy = &reviewer
	rule.UpdatedOn = time.Now().UTC()
	switch action {
	case ActionApprove:
		rule.Status = models.RuleApproved
	case ActionReject:
		rule.Status = models.RuleRejected
	default:
		return false, &ValidationError{Fields: []string{"action"}}
	}
	return true, nil
}
