package domain

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewToken returns an unguessable URL-safe capability token (22 chars).
func NewToken() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// NewRoomName returns a fresh room name; room names are tokens too.
func NewRoomName() string {
	return NewToken()
}

// NewOwner issues a fresh durable owner identity.
func NewOwner() Owner {
	return Owner(uuid.NewString())
}

// NewContentKey returns a fresh blob key scoped by owner.
func NewContentKey(owner Owner) string {
	id := uuid.New()
	return fmt.Sprintf("%s/%s", owner, hex.EncodeToString(id[:]))
}

// TokenMatches compares a presented token against the stored one in constant time.
func TokenMatches(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
