package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeatherSnapshot — one reading ingested from the external weather service.
// Read-mostly; the newest stored snapshot doubles as the fallback value when
// the live fetch fails.
type WeatherSnapshot struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"   json:"id"`
	Location        string             `bson:"location"        json:"location"`
	TemperatureC    float64            `bson:"temperatureC"    json:"temperatureC"`
	HumidityPct     float64            `bson:"humidityPct"     json:"humidityPct"`
	PrecipitationMm float64            `bson:"precipitationMm" json:"precipitationMm"`
	WindSpeedMps    float64            `bson:"windSpeedMps"    json:"windSpeedMps"`
	Timestamp       time.Time          `bson:"timestamp"       json:"timestamp"`
}

// IrrigationPlan — researcher-authored irrigation advice, served to farmers.
type IrrigationPlan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"      json:"id"`
	IrrigationAdvice string             `bson:"irrigationAdvice"   json:"irrigationAdvice"`
	CreatedBy        primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedOn        time.Time          `bson:"createdOn"          json:"createdOn"`
}
