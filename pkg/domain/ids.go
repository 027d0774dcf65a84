// Package domain holds typed identifiers shared across features.
//
// IDs are newtypes so the compiler rejects cross-type assignment, and every
// external input passes through a Parse function at the trust boundary.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"

	dErrors "pathway/pkg/domain-errors"
)

// UserID identifies the authenticated owner of a profile.
type UserID uuid.UUID

// ParseUserID constructs a UserID from external input.
// Rejects empty, malformed, and nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "user id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return UserID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "user id cannot be the nil UUID")
	}
	return UserID(parsed), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is unset.
func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText renders the canonical UUID form. Stored documents and API
// payloads carry IDs as strings.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "user id must be a valid UUID")
	}
	*id = UserID(parsed)
	return nil
}

// EntryID identifies a repeatable profile entry (education, work experience,
// dependent, connection). It is an opaque collision-resistant token: a
// base-36 timestamp prefix followed by a random suffix. Persistence layers
// must preserve it verbatim; removal and update correlate on it.
type EntryID string

const entrySuffixBytes = 8

// NewEntryID generates a fresh entry identifier. The token is immutable for
// the lifetime of the entry.
func NewEntryID() EntryID {
	buf := make([]byte, entrySuffixBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// UUID so ID generation cannot return an empty token.
		return EntryID(strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.NewString())
	}
	return EntryID(strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf))
}

// ParseEntryID validates an entry ID received from a client.
func ParseEntryID(s string) (EntryID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "entry id cannot be empty")
	}
	if len(s) > 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "entry id too long")
	}
	return EntryID(s), nil
}

func (id EntryID) String() string {
	return string(id)
}

// IsNil reports whether the ID is unset.
func (id EntryID) IsNil() bool {
	return id == ""
}
