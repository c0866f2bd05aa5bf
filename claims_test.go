package authflow_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	authflow "github.com/hakbeom/go-authflow"
)

func TestJWTClaims(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	claims := &authflow.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:   "user-id",
		Email: "user@example.com",
		Roles: []string{"admin", "user"},
	}

	assert.Equal(t, "subject-id", claims.Subject())
	assert.Equal(t, "user-id", claims.UserID())
	assert.Equal(t, "user@example.com", claims.UserEmail())
	assert.Equal(t, []string{"admin", "user"}, claims.UserRoles())
	assert.Equal(t, now, claims.IssuedAt())
	assert.Equal(t, now.Add(time.Hour), claims.Expires())

	t.Run("HasRole", func(t *testing.T) {
		assert.True(t, claims.HasRole("admin"))
		assert.False(t, claims.HasRole("ADMIN"))
		assert.False(t, claims.HasRole("auditor"))
	})

	t.Run("UserID falls back to subject", func(t *testing.T) {
		bare := &authflow.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		}
		assert.Equal(t, "subject-id", bare.UserID())
	})

	t.Run("missing timestamps are zero", func(t *testing.T) {
		bare := &authflow.JWTClaims{}
		assert.True(t, bare.Expires().IsZero())
		assert.True(t, bare.IssuedAt().IsZero())
	})
}

func TestSessionObject(t *testing.T) {
	t.Run("GetUserUUID rejects a non-uuid id", func(t *testing.T) {
		session := &authflow.SessionObject{UserID: "not-a-uuid"}

		_, err := session.GetUserUUID()
		assert.Error(t, err)
	})
}
