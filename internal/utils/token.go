package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateInviteToken returns a URL-safe opaque token unrelated to any
// existing identifier.
func GenerateInviteToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
