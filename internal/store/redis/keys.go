package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixSession prefixes session snapshot keys.
	KeyPrefixSession = "contentideas:session:"
	// KeyAllSessions is the set of known session IDs.
	KeyAllSessions = "contentideas:sessions:all"
)

// SessionKey returns the key holding a session snapshot.
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// AllSessionsKey returns the key of the session ID set.
func AllSessionsKey() string {
	return KeyAllSessions
}

// ExtractSessionID returns the session ID encoded in key.
func ExtractSessionID(key string) (string, error) {
	id, ok := strings.CutPrefix(key, KeyPrefixSession)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	return id, nil
}
