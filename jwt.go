package main

import (
	"errors"
	"time"

	"agriexpert/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authSubject is what a validated token carries: who, and as what.
type authSubject struct {
	UserID primitive.ObjectID
	Role   models.Role
	Name   string
}

// signJWT creates an HS256 token with subject, role and a 24h expiration.
func signJWT(secret string, u models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.ID.Hex(),
		"role": string(u.Role),
		"name": u.Name,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
		"iss":  "agriexpert",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// parseJWT validates the token and returns the subject it carries.
func parseJWT(secret, tokenStr string) (authSubject, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return authSubject{}, errors.New("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return authSubject{}, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	uid, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return authSubject{}, errors.New("no subject")
	}
	role, _ := claims["role"].(string)
	if !models.ValidRole(models.Role(role)) {
		return authSubject{}, errors.New("no role")
	}
	name, _ := claims["name"].(string)

	return authSubject{UserID: uid, Role: models.Role(role), Name: name}, nil
}
