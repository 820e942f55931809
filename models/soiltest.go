package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SoilType values accepted at the submission boundary. Stored lower case.
type SoilType string

const (
	SoilLoamy  SoilType = "loamy"
	SoilSandy  SoilType = "sandy"
	SoilClayey SoilType = "clayey"
	SoilSilty  SoilType = "silty"
	SoilPeaty  SoilType = "peaty"
	SoilChalky SoilType = "chalky"
	SoilSaline SoilType = "saline"
)

// ValidSoilType reports whether t is a known soil type.
func ValidSoilType(t SoilType) bool {
	switch t {
	case SoilLoamy, SoilSandy, SoilClayey, SoilSilty, SoilPeaty, SoilChalky, SoilSaline:
		return true
	}
	return false
}

// SoilTest — one farmer-submitted reading. Immutable after creation except by
// researcher correction.
type SoilTest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId"        json:"userId"`
	SoilType   SoilType           `bson:"soilType"      json:"soilType"`
	PH         float64            `bson:"pH"            json:"pH"`
	Moisture   float64            `bson:"moisture"      json:"moisture"`
	Nitrogen   float64            `bson:"nitrogen"      json:"nitrogen"`
	Phosphorus float64            `bson:"phosphorus"    json:"phosphorus"`
	Potassium  float64            `bson:"potassium"     json:"potassium"`
	CreatedAt  time.Time          `bson:"createdAt"     json:"createdAt"`
}
