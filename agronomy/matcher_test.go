package agronomy

import (
	"testing"

	"agriexpert/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loamyRule(crop, fertilizer string) models.SoilRule {
	return models.SoilRule{
		SoilType:             models.SoilLoamy,
		PH:                   models.Range{Min: 5, Max: 7},
		Moisture:             models.Range{Min: 30, Max: 50},
		Nitrogen:             models.Range{Min: 20, Max: 30},
		Phosphorus:           models.Range{Min: 20, Max: 30},
		Potassium:            models.Range{Min: 20, Max: 30},
		CropSuggestion:       crop,
		FertilizerSuggestion: fertilizer,
		Status:               models.RuleApproved,
	}
}

func loamyReading() Reading {
	return Reading{
		SoilType:   models.SoilLoamy,
		PH:         6.5,
		Moisture:   40,
		Nitrogen:   25,
		Phosphorus: 25,
		Potassium:  25,
	}
}

func TestMatchInsideWindow(t *testing.T) {
	rule, ok := Match(loamyReading(), []models.SoilRule{loamyRule("Wheat", "Urea")})
	require.True(t, ok)
	assert.Equal(t, "Wheat", rule.CropSuggestion)
	assert.Equal(t, "Urea", rule.FertilizerSuggestion)
}

func TestMatchInclusiveBounds(t *testing.T) {
	rules := []models.SoilRule{loamyRule("Wheat", "Urea")}

	atMin := Reading{SoilType: models.SoilLoamy, PH: 5, Moisture: 30, Nitrogen: 20, Phosphorus: 20, Potassium: 20}
	_, ok := Match(atMin, rules)
	assert.True(t, ok, "reading exactly at every min must match")

	atMax := Reading{SoilType: models.SoilLoamy, PH: 7, Moisture: 50, Nitrogen: 30, Phosphorus: 30, Potassium: 30}
	_, ok = Match(atMax, rules)
	assert.True(t, ok, "reading exactly at every max must match")

	justOver := atMax
	justOver.Potassium = 30.01
	_, ok = Match(justOver, rules)
	assert.False(t, ok)
}

func TestMatchSoilTypeMismatch(t *testing.T) {
	r := loamyReading()
	r.SoilType = models.SoilSandy
	_, ok := Match(r, []models.SoilRule{loamyRule("Wheat", "Urea")})
	assert.False(t, ok, "no sandy rule exists, numeric values are irrelevant")
}

func TestMatchSkipsNonApproved(t *testing.T) {
	pending := loamyRule("Wheat", "Urea")
	pending.Status = models.RulePending
	rejected := loamyRule("Rice", "DAP")
	rejected.Status = models.RuleRejected

	_, ok := Match(loamyReading(), []models.SoilRule{pending, rejected})
	assert.False(t, ok)
}

func TestMatchFirstWinsOnTie(t *testing.T) {
	first := loamyRule("Wheat", "Urea")
	second := loamyRule("Barley", "DAP")
	rule, ok := Match(loamyReading(), []models.SoilRule{first, second})
	require.True(t, ok)
	assert.Equal(t, "Wheat", rule.CropSuggestion)
}

func TestMatchEmptyRuleSet(t *testing.T) {
	_, ok := Match(loamyReading(), nil)
	assert.False(t, ok)
}

func TestReadingValidate(t *testing.T) {
	ok := loamyReading()
	require.NoError(t, ok.Validate())

	bad := Reading{SoilType: "granite", PH: 15, Moisture: -1, Nitrogen: 1, Phosphorus: 1, Potassium: 1}
	err := bad.Validate()
	require.Error(t, err)
	ve, isVal := AsValidation(err)
	require.True(t, isVal)
	assert.ElementsMatch(t, []string{"soilType", "pH", "moisture"}, ve.Fields)
}
