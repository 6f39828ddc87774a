package service

import (
	"time"
)

// Providers that omit a token lifetime get 60 days.
const defaultTokenLifetime = 60 * 24 * time.Hour

func GetExpiresAt(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Now().Add(defaultTokenLifetime)
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
