package authflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	authflow "github.com/hakbeom/go-authflow"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  authflow.ErrNoEmptyString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := authflow.HashPassword(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NoError(t, authflow.ComparePasswordAndHash(tt.password, hash))

			cost, err := bcrypt.Cost([]byte(hash))
			assert.NoError(t, err)
			assert.Equal(t, authflow.BcryptCost, cost)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := authflow.HashPassword(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
		},
		{
			name:     "Wrong password",
			password: "notThePassword",
			hash:     hash,
			wantErr:  authflow.ErrMismatchedHashAndPassword,
		},
		{
			name:     "Empty password against real hash",
			password: "",
			hash:     hash,
			wantErr:  authflow.ErrMismatchedHashAndPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authflow.ComparePasswordAndHash(tt.password, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	first, err := authflow.HashPassword("samePassword")
	assert.NoError(t, err)

	second, err := authflow.HashPassword("samePassword")
	assert.NoError(t, err)

	// bcrypt salts per call
	assert.NotEqual(t, first, second)
}

func TestRandomPasswordHash(t *testing.T) {
	hash := authflow.RandomPasswordHash()
	assert.NotEmpty(t, hash)

	// nothing should ever match a throwaway hash we do not know the input of
	err := authflow.ComparePasswordAndHash("guess", hash)
	assert.Error(t, err)
}
