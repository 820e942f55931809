package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agriexpert/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// handleRegister creates a new user with a bcrypt-hashed password. Role
// defaults to FARMER; ADMIN cannot be self-assigned here (admins create
// admins through /admin/users).
func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
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
	if !models.ValidRole(role) || role == models.RoleAdmin {
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
	if _, err = a.users.InsertOne(ctx, &u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			writeErr(w, http.StatusConflict, "email already registered")
			return
		}
		a.log.Error("user insert failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, bson.M{"ok": true})
}

// handleLogin verifies credentials, stamps lastLogin, and returns a JWT plus
// the user profile.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var u models.User
	if err := a.users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&u); err != nil {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now().UTC()
	if _, err := a.users.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"lastLogin": now}}); err != nil {
		// Not fatal for login itself.
		a.log.Warn("lastLogin update failed", zap.Error(err))
	}
	u.LastLogin = &now

	tok, err := signJWT(a.cfg.JWTSecret, u)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "jwt error")
		return
	}
	u.PasswordHash = ""
	writeJSON(w, http.StatusOK, loginResp{Token: tok, User: u})
}

// handleUpdateProfile lets any authenticated user change their own name or
// email. Role changes stay admin-only.
func (a *App) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
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
	if len(set) == 0 {
		writeErr(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.users.FindOneAndUpdate(ctx, bson.M{"_id": sub.UserID}, bson.M{"$set": set},
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

// handleUpdatePassword verifies the current password before setting a new one.
func (a *App) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeErr(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var u models.User
	if err := a.users.FindOne(ctx, bson.M{"_id": sub.UserID}).Decode(&u); err != nil {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		writeErr(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "hash error")
		return
	}
	if _, err := a.users.UpdateByID(ctx, sub.UserID, bson.M{"$set": bson.M{"passwordHash": string(hash)}}); err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, bson.M{"ok": true})
}

// handleMe returns the current user's profile.
func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	sub := mustSubject(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var u models.User
	if err := a.users.FindOne(ctx, bson.M{"_id": sub.UserID}).Decode(&u); err != nil {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	u.PasswordHash = ""
	writeJSON(w, http.StatusOK, u)
}
