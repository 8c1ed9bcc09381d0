package fingerprint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEvidence(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		a := FromEvidence([]byte("photo of collapsed bridge"))
		b := FromEvidence([]byte("photo of collapsed bridge"))
		assert.Equal(t, a, b)
	})

	t.Run("distinct evidence gives distinct fingerprints", func(t *testing.T) {
		a := FromEvidence([]byte("evidence a"))
		b := FromEvidence([]byte("evidence b"))
		assert.NotEqual(t, a, b)
	})
}

func TestParse(t *testing.T) {
	t.Run("accepts exactly 32 bytes", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x01}, Size)
		fp, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, fp.Bytes())
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := Parse(bytes.Repeat([]byte{0x01}, Size-1))
		assert.Error(t, err)
	})

	t.Run("rejects long input", func(t *testing.T) {
		_, err := Parse(bytes.Repeat([]byte{0x01}, Size+1))
		assert.Error(t, err)
	})

	t.Run("copies the input", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x02}, Size)
		fp, err := Parse(raw)
		require.NoError(t, err)
		raw[0] = 0xFF
		assert.Equal(t, byte(0x02), fp[0])
	})
}

func TestString(t *testing.T) {
	var fp Fingerprint
	fp[0] = 0xAB
	s := fp.String()
	assert.Len(t, s, 2*Size)
	assert.Equal(t, "ab", s[:2])
}
