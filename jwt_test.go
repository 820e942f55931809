package main

import (
	"testing"
	"time"

	"agriexpert/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	u := models.User{
		ID:   primitive.NewObjectID(),
		Name: "Asha",
		Role: models.RoleResearcher,
	}

	tok, err := signJWT("secret", u)
	require.NoError(t, err)

	sub, err := parseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub.UserID)
	assert.Equal(t, models.RoleResearcher, sub.Role)
	assert.Equal(t, "Asha", sub.Name)
}

func TestJWTWrongSecret(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}
	tok, err := signJWT("secret", u)
	require.NoError(t, err)

	_, err = parseJWT("other", tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": string(models.RoleFarmer),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = parseJWT("secret", tok)
	assert.Error(t, err)
}

func TestJWTUnknownRoleRejected(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": "SUPERUSER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = parseJWT("secret", tok)
	assert.Error(t, err)
}
