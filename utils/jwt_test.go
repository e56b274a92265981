package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplatform/config"
)

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", JWTTTLHours: 1}

	token, err := GenerateJWTToken(42, "alice@example.com", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.Equal(t, "alice@example.com", email)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", JWTTTLHours: 1}
	token, err := GenerateJWTToken(1, "a@example.com", cfg)
	require.NoError(t, err)

	_, _, err = ParseToken(token, &config.Config{JWTSecret: "othersecret"})
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}
	_, _, err := ParseToken("not.a.token", cfg)
	assert.Error(t, err)
}
