package utils

import (
	"errors"
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken revokes a token until its own expiry.
func BlacklistToken(token string, expiresAt time.Time) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(TokenTTL)
	}
	blacklistedTokens[token] = expiresAt
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()

	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
		// expired, drop it
		delete(blacklistedTokens, token)
	}
	return false
}

// ValidateToken parses the token and rejects revoked ones.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, errors.New("token has been revoked")
	}
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errors.New("invalid user id in token")
	}
	return claims, nil
}
