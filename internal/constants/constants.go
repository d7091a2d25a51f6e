package constants

import "time"

// Session
const (
	SessionCookieName = "onboarding_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Object storage
const (
	AssetBucket  = "company-assets"
	SignedURLTTL = 5 * time.Minute
)
