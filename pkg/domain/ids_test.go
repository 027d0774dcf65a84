package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pathway/pkg/domain-errors"
)

// TestParseUserID_Invariants validates the parsing invariant:
// "user IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
	})
}

// TestUserID_JSONRoundTrip pins the wire form: IDs serialize as UUID strings,
// not raw byte arrays, so stored documents stay readable.
func TestUserID_JSONRoundTrip(t *testing.T) {
	original := UserID(uuid.New())

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"`+original.String()+`"`, string(raw))

	var decoded UserID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)

	var bad UserID
	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &bad))
}

// TestNewEntryID verifies the entry token shape: time-prefixed, random-suffixed,
// and unique across rapid generation.
func TestNewEntryID(t *testing.T) {
	t.Run("has prefix-suffix shape", func(t *testing.T) {
		id := NewEntryID()
		parts := strings.SplitN(id.String(), "-", 2)
		require.Len(t, parts, 2)
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[1])
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		seen := make(map[EntryID]bool)
		for range 1000 {
			id := NewEntryID()
			assert.False(t, seen[id], "duplicate entry id generated: %s", id)
			seen[id] = true
		}
	})
}

func TestParseEntryID(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseEntryID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized tokens", func(t *testing.T) {
		_, err := ParseEntryID(strings.Repeat("a", 65))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round-trips a generated id", func(t *testing.T) {
		generated := NewEntryID()
		parsed, err := ParseEntryID(generated.String())
		require.NoError(t, err)
		assert.Equal(t, generated, parsed)
	})
}
