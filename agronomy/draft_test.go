package agronomy

import (
	"testing"

	"agriexpert/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validDraft() RuleDraft {
	return RuleDraft{
		SoilType:             models.SoilLoamy,
		PH:                   models.Range{Min: 5, Max: 7},
		Moisture:             models.Range{Min: 30, Max: 50},
		Nitrogen:             models.Range{Min: 20, Max: 30},
		Phosphorus:           models.Range{Min: 20, Max: 30},
		Potassium:            models.Range{Min: 20, Max: 30},
		CropSuggestion:       "Wheat",
		FertilizerSuggestion: "Urea",
	}
}

func TestNewProposal(t *testing.T) {
	proposer := primitive.NewObjectID()
	rule, err := NewProposal(validDraft(), proposer)
	require.NoError(t, err)

	assert.Equal(t, models.RulePending, rule.Status)
	assert.Equal(t, proposer, rule.CreatedBy)
	assert.Nil(t, rule.ReviewedBy)
	assert.False(t, rule.UpdatedOn.IsZero())
}

func TestNewProposalInvertedRange(t *testing.T) {
	d := validDraft()
	d.PH = models.Range{Min: 8, Max: 5}

	_, err := NewProposal(d, primitive.NewObjectID())
	require.Error(t, err)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"pH"}, ve.Fields)
}

func TestNewProposalCollectsAllBadFields(t *testing.T) {
	d := RuleDraft{
		SoilType: "volcanic",
		PH:       models.Range{Min: 8, Max: 5},
		Nitrogen: models.Range{Min: 3, Max: 1},
	}
	_, err := NewProposal(d, primitive.NewObjectID())
	require.Error(t, err)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{"soilType", "pH", "nitrogen", "cropSuggestion", "fertilizerSuggestion"},
		ve.Fields)
}

func TestNewActiveRule(t *testing.T) {
	admin := primitive.NewObjectID()
	rule, err := NewActiveRule(validDraft(), admin)
	require.NoError(t, err)

	assert.Equal(t, models.RuleApproved, rule.Status)
	require.NotNil(t, rule.ReviewedBy)
	assert.Equal(t, admin, *rule.ReviewedBy)
}
