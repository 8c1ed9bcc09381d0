package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidLocation, "location must be 1-50 characters")
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeInvalidLocation))
	assert.False(t, HasCode(err, CodeInvalidLatitude))
	assert.Contains(t, err.Error(), "invalid_location")
}

func TestWrap(t *testing.T) {
	t.Run("wraps cause and carries code", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "fingerprint lookup failed")
		require.Error(t, err)
		assert.True(t, HasCode(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("wrapping nil returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "should vanish"))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeDuplicateEvidence, "duplicate")
		outer := Wrap(inner, CodeInternal, "commit failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.False(t, HasCode(outer, CodeDuplicateEvidence))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeCapacityExceeded, CodeOf(New(CodeCapacityExceeded, "cap")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeNotAuthorized, CodeOf(fmt.Errorf("outer: %w", New(CodeNotAuthorized, "nope"))))
}
