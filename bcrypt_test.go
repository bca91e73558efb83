package taskboard_test

import (
	"strings"
	"testing"

	taskboard "github.com/goliatone/go-taskboard"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := taskboard.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, taskboard.ErrNoEmptyString, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.True(t, strings.HasPrefix(hash, "$2"))

			err = taskboard.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	password := "repeatable-secret"

	hash1, err := taskboard.HashPassword(password)
	assert.NoError(t, err)

	hash2, err := taskboard.HashPassword(password)
	assert.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.NoError(t, taskboard.ComparePasswordAndHash(password, hash1))
	assert.NoError(t, taskboard.ComparePasswordAndHash(password, hash2))
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := taskboard.HashPassword(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
			wantErr:  false,
		},
		{
			name:     "Wrong password",
			password: "wrongPassword",
			hash:     hash,
			wantErr:  true,
		},
		{
			name:     "Invalid hash",
			password: password,
			hash:     "invalidhash",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := taskboard.ComparePasswordAndHash(tt.password, tt.hash)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.hash == hash {
					assert.Equal(t, taskboard.ErrMismatchedHashAndPassword, err)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
