package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"agriexpert/agronomy"
	"agriexpert/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleProposeRules creates a PENDING rule proposal for admin review.
func (a *App) handleProposeRules(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	var req ruleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	rule, err := agronomy.NewProposal(req.draft(), sub.UserID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.rules.InsertOne(ctx, &rule)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	rule.ID = res.InsertedID.(primitive.ObjectID)
	writeJSON(w, http.StatusCreated, rule)
}

// handleSoilInsights aggregates submission counts and average pH per soil type.
func (a *App) handleSoilInsights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := a.tests.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$soilType",
			"count": bson.M{"$sum": 1},
			"avgPH": bson.M{"$avg": "$pH"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []soilInsight{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRecommendationTrends counts recommendations per suggested crop.
func (a *App) handleRecommendationTrends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := a.recs.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$cropSuggestion",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []cropTrend{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRuleAudit returns the full rule list for audit, newest first.
func (a *App) handleRuleAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.rules.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updatedOn", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.SoilRule{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleResearcherSoilTests returns all soil tests, newest first.
func (a *App) handleResearcherSoilTests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.tests.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.SoilTest{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCorrectSoilTest lets a researcher correct a submitted reading. The
// whole reading is validated again; the owning farmer and timestamps are
// untouched.
func (a *App) handleCorrectSoilTest(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	var req soilTestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	reading := req.reading()
	if err := reading.Validate(); err != nil {
		writeDomainErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.tests.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"soilType":   reading.SoilType,
			"pH":         reading.PH,
			"moisture":   reading.Moisture,
			"nitrogen":   reading.Nitrogen,
			"phosphorus": reading.Phosphorus,
			"potassium":  reading.Potassium,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var out models.SoilTest
	if err := res.Decode(&out); err != nil {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
