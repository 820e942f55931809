package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agriexpert/agronomy"
	"agriexpert/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ---- user management ----

func (a *App) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.users.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "registrationDate", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	for i := range out {
		out[i].PasswordHash = ""
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req upsertUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "name, email, password are required")
		return
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleFarmer
	}
	if !models.ValidRole(role) {
		writeErr(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "hash error")
		return
	}
	u := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.users.InsertOne(ctx, &u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeErr(w, http.StatusConflict, "email already registered")
			return
		}
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	u.PasswordHash = ""
	writeJSON(w, http.StatusCreated, u)
}

func (a *App) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	var req upsertUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		set["email"] = strings.ToLower(req.Email)
	}
	if req.Role != "" {
		if !models.ValidRole(models.Role(req.Role)) {
			writeErr(w, http.StatusBadRequest, "invalid role")
			return
		}
		set["role"] = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "hash error")
			return
		}
		set["passwordHash"] = string(hash)
	}
	if len(set) == 0 {
		writeErr(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var out models.User
	if err := res.Decode(&out); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeErr(w, http.StatusConflict, "email already registered")
			return
		}
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	out.PasswordHash = ""
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, bson.M{"ok": true})
}

// ---- soil test administration ----

// handleAllSoilTests returns every soil test with its recommendation joined
// in, for the admin dashboard.
func (a *App) handleAllSoilTests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := a.tests.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	tests := []models.SoilTest{}
	if err := cur.All(ctx, &tests); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}

	rcur, err := a.recs.Find(ctx, bson.M{"soilTest": bson.M{"$exists": true}})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	recs := []models.Recommendation{}
	if err := rcur.All(ctx, &recs); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	byTest := make(map[primitive.ObjectID]*models.Recommendation, len(recs))
	for i := range recs {
		byTest[*recs[i].SoilTest] = &recs[i]
	}

	out := make([]soilTestWithRecommendation, len(tests))
	for i, t := range tests {
		out[i] = soilTestWithRecommendation{SoilTest: t, Recommendation: byTest[t.ID]}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleDeleteSoilTest(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.tests.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, bson.M{"ok": true})
}

// handleCreateRecommendation creates a manual recommendation for a soil test
// that has none yet (e.g. the secondary write failed at submission time).
func (a *App) handleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "soilTestId"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	var req manualRecommendationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.CropSuggestion == "" || req.FertilizerSuggestion == "" {
		writeErr(w, http.StatusBadRequest, "cropSuggestion and fertilizerSuggestion are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := a.tests.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		writeErr(w, http.StatusNotFound, "soil test not found")
		return
	}

	rec := models.Recommendation{
		SoilTest:                 &oid,
		CropSuggestion:           req.CropSuggestion,
		FertilizerSuggestion:     req.FertilizerSuggestion,
		IrrigationRecommendation: req.IrrigationRecommendation,
		GeneratedBy:              &sub.UserID,
		Source:                   models.SourceManual,
		Status:                   models.RecApproved,
		ReviewedBy:               &sub.UserID,
		CreatedAt:                time.Now().UTC(),
	}
	res, err := a.recs.InsertOne(ctx, &rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeErr(w, http.StatusConflict, "recommendation already exists for this soil test")
			return
		}
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	writeJSON(w, http.StatusCreated, rec)
}

// ---- rules ----

func (a *App) handleListRules(w http.ResponseWriter, r *http.Request) {
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

// handleSetRule lets an admin add an APPROVED rule directly, skipping the
// proposal queue.
func (a *App) handleSetRule(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	var req ruleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	rule, err := agronomy.NewActiveRule(req.draft(), sub.UserID)
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

func (a *App) handlePendingRules(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.rules.Find(ctx, bson.M{"status": models.RulePending},
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

// handleReviewRule approves or rejects a rule proposal. An approved rule is
// immediately eligible for matching.
func (a *App) handleReviewRule(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	var req reviewRuleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	action, err := agronomy.ParseReviewAction(req.Action)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var rule models.SoilRule
	if err := a.rules.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule); err != nil {
		writeErr(w, http.StatusNotFound, "rule not found")
		return
	}

	changed, err := agronomy.ReviewRule(&rule, action, sub.UserID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if changed {
		update := bson.M{"$set": bson.M{
			"status":     rule.Status,
			"reviewedBy": rule.ReviewedBy,
			"updatedOn":  rule.UpdatedOn,
		}}
		if _, err := a.rules.UpdateByID(ctx, oid, update); err != nil {
			a.log.Error("rule review update failed", zap.Error(err))
			writeErr(w, http.StatusInternalServerError, "db error")
			return
		}
	}
	writeJSON(w, http.StatusOK, rule)
}

// ---- recommendation review ----

func (a *App) handlePendingRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.recs.Find(ctx, bson.M{"status": models.RecPending},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	out := []models.Recommendation{}
	if err := cur.All(ctx, &out); err != nil {
		writeErr(w, http.StatusInternalServerError, "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReviewRecommendation applies an admin verdict. Approving with edited
// suggestions retags the record "modified"; an approval also synthesizes a
// new APPROVED rule from the snapshot so future matching submissions resolve
// through the matcher. The synthesis is a secondary write: its failure is
// logged, never rolled into the review response.
func (a *App) handleReviewRecommendation(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad id")
		return
	}
	var req reviewRecommendationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	action, err := agronomy.ParseReviewAction(req.Action)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()
	var rec models.Recommendation
	if err := a.recs.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		writeErr(w, http.StatusNotFound, "recommendation not found")
		return
	}

	edits := &agronomy.SuggestionEdit{
		Crop:       req.CropSuggestion,
		Fertilizer: req.FertilizerSuggestion,
		Irrigation: req.IrrigationRecommendation,
	}
	changed, err := agronomy.ReviewRecommendation(&rec, action, edits, sub.UserID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if !changed {
		writeJSON(w, http.StatusOK, rec)
		return
	}

	update := bson.M{"$set": bson.M{
		"status":                   rec.Status,
		"source":                   rec.Source,
		"reviewedBy":               rec.ReviewedBy,
		"cropSuggestion":           rec.CropSuggestion,
		"fertilizerSuggestion":     rec.FertilizerSuggestion,
		"irrigationRecommendation": rec.IrrigationRecommendation,
	}}
	if _, err := a.recs.UpdateByID(ctx, oid, update); err != nil {
		a.log.Error("recommendation review update failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}

	if action == agronomy.ActionApprove && rec.SoilTest != nil {
		a.synthesizeRuleFromApproval(ctx, rec, sub.UserID)
	}
	writeJSON(w, http.StatusOK, rec)
}

// synthesizeRuleFromApproval turns an approved ad-hoc recommendation into an
// APPROVED rule so the rule set learns from manual reviews.
func (a *App) synthesizeRuleFromApproval(ctx context.Context, rec models.Recommendation, reviewer primitive.ObjectID) {
	var test models.SoilTest
	if err := a.tests.FindOne(ctx, bson.M{"_id": *rec.SoilTest}).Decode(&test); err != nil {
		a.log.Warn("rule synthesis skipped, soil test missing",
			zap.String("soilTest", rec.SoilTest.Hex()), zap.Error(err))
		return
	}
	rule, ok := agronomy.SynthesizeRule(rec, test, reviewer)
	if !ok {
		return
	}
	if _, err := a.rules.InsertOne(ctx, &rule); err != nil {
		a.log.Warn("rule synthesis insert failed", zap.Error(err))
	}
}

// ---- stats ----

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var out statsResp
	var err error
	count := func(c *mongo.Collection, filter bson.M) int64 {
		if err != nil {
			return 0
		}
		var n int64
		n, err = c.CountDocuments(ctx, filter)
		return n
	}

	out.Users.Total = count(a.users, bson.M{})
	out.Users.Farmers = count(a.users, bson.M{"role": models.RoleFarmer})
	out.Users.Researchers = count(a.users, bson.M{"role": models.RoleResearcher})
	out.Users.Govt = count(a.users, bson.M{"role": models.RoleGovt})
	out.Users.Admins = count(a.users, bson.M{"role": models.RoleAdmin})
	out.Tests = count(a.tests, bson.M{})
	out.Recommendations = count(a.recs, bson.M{})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
