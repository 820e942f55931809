package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agriexpert/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleListReports returns generated reports, newest first.
func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.reports.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdOn", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGenerateReport creates a report record for a soil test and its
// recommendation. The summary text is what the external renderer turns into
// the PDF behind the stored artifact path.
func (a *App) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "soilTestId"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	var test models.SoilTest
	if err := a.tests.FindOne(ctx, bson.M{"_id": oid}).Decode(&test); err != nil {
		writeErr(w, http.StatusNotFound, "soil test or recommendation not found")
		return
	}
	var rec models.Recommendation
	if err := a.recs.FindOne(ctx, bson.M{"soilTest": oid}).Decode(&rec); err != nil {
		writeErr(w, http.StatusNotFound, "soil test or recommendation not found")
		return
	}

	report := models.Report{
		ReportURL: fmt.Sprintf("/reports/%s.pdf", uuid.NewString()),
		SoilTest:  test.ID,
		Summary:   reportSummary(test, rec),
		CreatedBy: sub.UserID,
		CreatedOn: time.Now().UTC(),
	}
	res, err := a.reports.InsertOne(ctx, &report)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	report.ID = res.InsertedID.(primitive.ObjectID)
	writeJSON(w, http.StatusCreated, report)
}

func reportSummary(t models.SoilTest, rec models.Recommendation) string {
	return fmt.Sprintf(
		"Soil Test Report\nSoil Type: %s\npH: %.2f\nMoisture: %.2f\nNitrogen: %.2f\nPhosphorus: %.2f\nPotassium: %.2f\n\nRecommendation\nCrop: %s\nFertilizer: %s\nIrrigation: %s\n",
		t.SoilType, t.PH, t.Moisture, t.Nitrogen, t.Phosphorus, t.Potassium,
		rec.CropSuggestion, rec.FertilizerSuggestion, rec.IrrigationRecommendation,
	)
}
