package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/dailybot/config"
)

func TestVerifyAdminKeyPlaintext(t *testing.T) {
	cfg := config.AppConfig{AdminKey: "topsecret"}

	assert.True(t, VerifyAdminKey(cfg, "topsecret"))
	assert.False(t, VerifyAdminKey(cfg, "wrong"))
	assert.False(t, VerifyAdminKey(cfg, ""))
}

func TestVerifyAdminKeyHashTakesPrecedence(t *testing.T) {
	hash, err := HashAdminKey("hashedkey")
	require.NoError(t, err)

	cfg := config.AppConfig{AdminKey: "plaintext", AdminKeyHash: hash}
	assert.True(t, VerifyAdminKey(cfg, "hashedkey"))
	assert.False(t, VerifyAdminKey(cfg, "plaintext"))
}

func TestVerifyAdminKeyUnconfigured(t *testing.T) {
	assert.False(t, VerifyAdminKey(config.AppConfig{}, "anything"))
}

func TestSanitizeStripsMarkup(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  <b>hello</b> "))
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.Equal(t, "", Sanitize("<script>alert(1)</script>"))
}
