package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/teampulse/dailybot/config"
)

// HashAdminKey returns the bcrypt hash of an admin key, for operators who
// prefer not to keep the plaintext key in configuration.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAdminKey checks a presented key against the configured credential.
// AdminKeyHash takes precedence when set; otherwise the plaintext AdminKey is
// compared in constant time. An unconfigured credential never verifies.
func VerifyAdminKey(cfg config.AppConfig, key string) bool {
	if key == "" {
		return false
	}
	if cfg.AdminKeyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.AdminKeyHash), []byte(key)) == nil
	}
	if cfg.AdminKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cfg.AdminKey), []byte(key)) == 1
}
