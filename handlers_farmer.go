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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// handleSubmitSoilTest persists the reading, runs the rule matcher and stores
// the resulting recommendation. The soil test write commits first: if the
// recommendation write fails afterwards the test survives and the response
// says which part did not complete.
func (a *App) handleSubmitSoilTest(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)

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

	test := models.SoilTest{
		UserID:     sub.UserID,
		SoilType:   reading.SoilType,
		PH:         reading.PH,
		Moisture:   reading.Moisture,
		Nitrogen:   reading.Nitrogen,
		Phosphorus: reading.Phosphorus,
		Potassium:  reading.Potassium,
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()
	res, err := a.tests.InsertOne(ctx, &test)
	if err != nil {
		a.log.Error("soil test insert failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	test.ID = res.InsertedID.(primitive.ObjectID)

	rec, err := a.buildRecommendation(ctx, test, sub.UserID)
	if err != nil {
		a.log.Error("recommendation create failed",
			zap.String("soilTest", test.ID.Hex()), zap.Error(err))
		writeJSON(w, http.StatusCreated, submitResp{
			Message:             "Soil test submitted; recommendation could not be created, retry via admin",
			SoilTest:            test,
			RecommendationError: "recommendation creation did not complete",
		})
		return
	}

	writeJSON(w, http.StatusCreated, submitResp{
		Message:        "Soil test submitted successfully",
		SoilTest:       test,
		Recommendation: rec,
	})
}

// buildRecommendation runs the matcher over the approved rules for the
// reading's soil type, overlays best-effort ML advice, and persists the
// outcome.
func (a *App) buildRecommendation(ctx context.Context, test models.SoilTest, submitter primitive.ObjectID) (*models.Recommendation, error) {
	reading := agronomy.ReadingFromTest(test)

	cur, err := a.rules.Find(ctx,
		bson.M{"status": models.RuleApproved, "soilType": test.SoilType},
		options.Find().SetSort(bson.D{{Key: "updatedOn", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var candidates []models.SoilRule
	if err := cur.All(ctx, &candidates); err != nil {
		return nil, err
	}

	var rec models.Recommendation
	if rule, ok := agronomy.Match(reading, candidates); ok {
		rec = agronomy.RuleOutcome(test, rule)
	} else {
		rec = agronomy.PendingOutcome(test, submitter)
	}

	// Best-effort ML overlay; failure never fails the submission.
	mlCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if advice, err := a.ml.Predict(mlCtx, reading); err == nil {
		agronomy.ApplyMLAdvice(&rec, advice)
	} else {
		a.log.Debug("ml advice unavailable", zap.Error(err))
	}

	res, err := a.recs.InsertOne(ctx, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	return &rec, nil
}

// handleMySoilTests returns the current farmer's tests, newest first.
func (a *App) handleMySoilTests(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.tests.Find(ctx, bson.M{"userId": sub.UserID},
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

// handleGetRecommendation returns the recommendation tied to a soil test.
func (a *App) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "soilTestId"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var rec models.Recommendation
	if err := a.recs.FindOne(ctx, bson.M{"soilTest": oid}).Decode(&rec); err != nil {
		writeErr(w, http.StatusNotFound, "no recommendation found for this soil test")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleWeather returns live conditions for the configured location. When the
// fetch succeeds the snapshot is stored; when it fails the newest stored
// snapshot is served instead, so a weather outage degrades rather than errors.
func (a *App) handleWeather(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	snap, err := a.wx.Fetch(ctx, a.cfg.WeatherLocation)
	if err == nil {
		if _, insErr := a.weather.InsertOne(ctx, &snap); insErr != nil {
			a.log.Warn("weather snapshot insert failed", zap.Error(insErr))
		}
		writeJSON(w, http.StatusOK, snap)
		return
	}
	a.log.Warn("live weather unavailable, serving last snapshot", zap.Error(err))

	var last models.WeatherSnapshot
	findErr := a.weather.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).Decode(&last)
	if findErr != nil {
		writeErr(w, http.StatusNotFound, "no weather data available")
		return
	}
	writeJSON(w, http.StatusOK, last)
}

// handleIrrigationPlans returns irrigation plans, newest first.
func (a *App) handleIrrigationPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := a.plans.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdOn", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.IrrigationPlan{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
