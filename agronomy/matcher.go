package agronomy

import (
	"agriexpert/models"
)

// Reading is the comparable part of a soil test.
type Reading struct {
	SoilType   models.SoilType
	PH         float64
	Moisture   float64
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
}

// ReadingFromTest extracts the matchable values from a stored soil test.
func ReadingFromTest(t models.SoilTest) Reading {
	return Reading{
		SoilType:   t.SoilType,
		PH:         t.PH,
		Moisture:   t.Moisture,
		Nitrogen:   t.Nitrogen,
		Phosphorus: t.Phosphorus,
		Potassium:  t.Potassium,
	}
}

// Validate checks a reading at the submission boundary: known soil type,
// pH within 0-14, the other parameters non-negative.
func (r Reading) Validate() error {
	var bad []string
	if !models.ValidSoilType(r.SoilType) {
		bad = append(bad, "soilType")
	}
	if r.PH < 0 || r.PH > 14 {
		bad = append(bad, "pH")
	}
	if r.Moisture < 0 {
		bad = append(bad, "moisture")
	}
	if r.Nitrogen < 0 {
		bad = append(bad, "nitrogen")
	}
	if r.Phosphorus < 0 {
		bad = append(bad, "phosphorus")
	}
	if r.Potassium < 0 {
		bad = append(bad, "potassium")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// Match returns the first APPROVED rule whose soil type equals the reading's
// and whose five windows all contain the reading's values, bounds inclusive.
// The second return is false when nothing matches; that is a normal outcome,
// not an error. Candidates are taken in slice order, so ties go to whichever
// rule the caller fetched first.
func Match(r Reading, rules []models.SoilRule) (models.SoilRule, bool) {
	for _, rule := range rules {
		if rule.Status != models.RuleApproved {
			continue
		}
		if rule.SoilType != r.SoilType {
			continue
		}
		if !rule.PH.Contains(r.PH) ||
			!rule.Moisture.Contains(r.Moisture) ||
			!rule.Nitrogen.Contains(r.Nitrogen) ||
			!rule.Phosphorus.Contains(r.Phosphorus) ||
			!rule.Potassium.Contains(r.Potassium) {
			continue
		}
		return rule, true
	}
	return models.SoilRule{}, false
}
