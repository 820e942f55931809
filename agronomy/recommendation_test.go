package agronomy

import (
	"testing"

	"agriexpert/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleTest(soil models.SoilType) models.SoilTest {
	return models.SoilTest{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		SoilType:   soil,
		PH:         6.5,
		Moisture:   40,
		Nitrogen:   25,
		Phosphorus: 25,
		Potassium:  25,
	}
}

// Matched submission: approved immediately, suggestions from the rule,
// generated by the system.
func TestRuleOutcome(t *testing.T) {
	test := sampleTest(models.SoilLoamy)
	rec := RuleOutcome(test, loamyRule("Wheat", "Urea"))

	assert.Equal(t, models.RecApproved, rec.Status)
	assert.Equal(t, models.SourceRule, rec.Source)
	assert.Equal(t, "Wheat", rec.CropSuggestion)
	assert.Equal(t, "Urea", rec.FertilizerSuggestion)
	require.NotNil(t, rec.SoilTest)
	assert.Equal(t, test.ID, *rec.SoilTest)
	assert.Nil(t, rec.GeneratedBy)
}

// Unmatched submission: pending placeholder credited to the farmer, with the
// five values snapshotted as point ranges.
func TestPendingOutcome(t *testing.T) {
	test := sampleTest(models.SoilSandy)
	rec := PendingOutcome(test, test.UserID)

	assert.Equal(t, models.RecPending, rec.Status)
	assert.Equal(t, models.SourceManual, rec.Source)
	assert.Equal(t, PendingPlaceholder, rec.CropSuggestion)
	require.NotNil(t, rec.GeneratedBy)
	assert.Equal(t, test.UserID, *rec.GeneratedBy)
	require.NotNil(t, rec.PH)
	assert.Equal(t, models.Range{Min: 6.5, Max: 6.5}, *rec.PH)
	require.NotNil(t, rec.Potassium)
	assert.Equal(t, models.Range{Min: 25, Max: 25}, *rec.Potassium)
}

func TestApplyMLAdvice(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	ApplyMLAdvice(&rec, MLAdvice{Crop: "Millet", Fertilizer: "Compost", Confidence: 0.87})

	assert.Equal(t, models.SourceML, rec.Source)
	assert.Equal(t, "Millet", rec.CropSuggestion)
	require.NotNil(t, rec.ConfidenceScore)
	assert.Equal(t, 0.87, *rec.ConfidenceScore)
	assert.Equal(t, models.RecPending, rec.Status, "ML overlay never changes status")
}

func TestApplyMLAdviceIncompleteAnswerIgnored(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	ApplyMLAdvice(&rec, MLAdvice{Crop: "Millet"})

	assert.Equal(t, models.SourceManual, rec.Source)
	assert.Equal(t, PendingPlaceholder, rec.CropSuggestion)
}

func TestReviewApproveWithEdits(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	reviewer := primitive.NewObjectID()

	changed, err := ReviewRecommendation(&rec, ActionApprove, &SuggestionEdit{Crop: "Barley", Fertilizer: "DAP"}, reviewer)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RecApproved, rec.Status)
	assert.Equal(t, models.SourceModified, rec.Source)
	assert.Equal(t, "Barley", rec.CropSuggestion)
	assert.Equal(t, "DAP", rec.FertilizerSuggestion)
	require.NotNil(t, rec.ReviewedBy)
	assert.Equal(t, reviewer, *rec.ReviewedBy)
}

func TestReviewApproveWithoutEditsKeepsSource(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	changed, err := ReviewRecommendation(&rec, ActionApprove, nil, primitive.NewObjectID())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.SourceManual, rec.Source)
}

func TestReviewReject(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	changed, err := ReviewRecommendation(&rec, ActionReject, nil, primitive.NewObjectID())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RecRejected, rec.Status)
	assert.Equal(t, PendingPlaceholder, rec.CropSuggestion, "reject leaves text alone")
}

func TestReviewIdempotentOnSameAction(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	reviewer := primitive.NewObjectID()
	_, err := ReviewRecommendation(&rec, ActionApprove, nil, reviewer)
	require.NoError(t, err)

	changed, err := ReviewRecommendation(&rec, ActionApprove, nil, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, reviewer, *rec.ReviewedBy, "no-op keeps the original reviewer")
}

func TestReviewConflictAfterTerminal(t *testing.T) {
	rec := PendingOutcome(sampleTest(models.SoilSandy), primitive.NewObjectID())
	_, err := ReviewRecommendation(&rec, ActionApprove, nil, primitive.NewObjectID())
	require.NoError(t, err)

	_, err = ReviewRecommendation(&rec, ActionReject, nil, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.RecApproved, rec.Status)
}

func TestSynthesizeRuleFromApproval(t *testing.T) {
	test := sampleTest(models.SoilSandy)
	rec := PendingOutcome(test, test.UserID)
	reviewer := primitive.NewObjectID()
	_, err := ReviewRecommendation(&rec, ActionApprove, &SuggestionEdit{Crop: "Barley", Fertilizer: "DAP"}, reviewer)
	require.NoError(t, err)

	rule, ok := SynthesizeRule(rec, test, reviewer)
	require.True(t, ok)
	assert.Equal(t, models.RuleApproved, rule.Status)
	assert.Equal(t, models.SoilSandy, rule.SoilType)
	assert.Equal(t, "Barley", rule.CropSuggestion)
	assert.Equal(t, models.Range{Min: 6.5, Max: 6.5}, rule.PH)

	// The synthesized rule now resolves an identical reading.
	matched, ok := Match(ReadingFromTest(test), []models.SoilRule{rule})
	require.True(t, ok)
	assert.Equal(t, "Barley", matched.CropSuggestion)
}

func TestSynthesizeRuleNeedsSnapshot(t *testing.T) {
	test := sampleTest(models.SoilLoamy)
	rec := RuleOutcome(test, loamyRule("Wheat", "Urea"))
	_, ok := SynthesizeRule(rec, test, primitive.NewObjectID())
	assert.False(t, ok)
}

func TestReviewRuleTransitions(t *testing.T) {
	reviewer := primitive.NewObjectID()
	rule := loamyRule("Wheat", "Urea")
	rule.Status = models.RulePending

	changed, err := ReviewRule(&rule, ActionApprove, reviewer)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RuleApproved, rule.Status)
	require.NotNil(t, rule.ReviewedBy)

	// Same action again: no-op.
	changed, err = ReviewRule(&rule, ActionApprove, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, changed)

	// Conflicting action: refused.
	_, err = ReviewRule(&rule, ActionReject, reviewer)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestParseReviewAction(t *testing.T) {
	a, err := ParseReviewAction("approve")
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, a)

	_, err = ParseReviewAction("escalate")
	_, isVal := AsValidation(err)
	assert.True(t, isVal)
}
