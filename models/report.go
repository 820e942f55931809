package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report — reference to a generated report artifact. Rendering happens outside
// the API; we keep the artifact path and the summary it was built from.
// Immutable once created.
type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportURL string             `bson:"reportUrl"     json:"reportUrl"`
	SoilTest  primitive.ObjectID `bson:"soilTest"      json:"soilTest"`
	Summary   string             `bson:"summary,omitempty" json:"summary,omitempty"`
	CreatedBy primitive.ObjectID `bson:"createdBy"     json:"createdBy"`
	CreatedOn time.Time          `bson:"createdOn"     json:"createdOn"`
}
