package registry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "reliefregistry/pkg/domain-errors"
)

func validRequest() SubmitRequest {
	return SubmitRequest{
		Location:     "DisasterZone1",
		Latitude:     40_000_000,
		Longitude:    -75_000_000,
		NeedType:     NeedFood,
		Quantity:     1000,
		Unit:         "kg",
		Urgency:      8,
		Description:  "Urgent food needs",
		EvidenceHash: bytes.Repeat([]byte{0x01}, 32),
		Category:     CategoryEmergency,
		Expiry:       100,
	}
}

func TestValidateSubmission(t *testing.T) {
	const (
		count  = 0
		max    = 10_000
		height = 0
	)

	t.Run("valid payload passes", func(t *testing.T) {
		require.NoError(t, ValidateSubmission(validRequest(), count, max, height))
	})

	tests := []struct {
		name     string
		mutate   func(*SubmitRequest)
		wantCode dErrors.Code
	}{
		{"empty location", func(r *SubmitRequest) { r.Location = "" }, dErrors.CodeInvalidLocation},
		{"location too long", func(r *SubmitRequest) { r.Location = strings.Repeat("x", 51) }, dErrors.CodeInvalidLocation},
		{"latitude above range", func(r *SubmitRequest) { r.Latitude = 91_000_000 }, dErrors.CodeInvalidLatitude},
		{"latitude below range", func(r *SubmitRequest) { r.Latitude = -91_000_000 }, dErrors.CodeInvalidLatitude},
		{"longitude above range", func(r *SubmitRequest) { r.Longitude = 181_000_000 }, dErrors.CodeInvalidLongitude},
		{"longitude below range", func(r *SubmitRequest) { r.Longitude = -181_000_000 }, dErrors.CodeInvalidLongitude},
		{"unknown need type", func(r *SubmitRequest) { r.NeedType = "invalid" }, dErrors.CodeInvalidNeedType},
		{"zero quantity", func(r *SubmitRequest) { r.Quantity = 0 }, dErrors.CodeInvalidQuantity},
		{"negative quantity", func(r *SubmitRequest) { r.Quantity = -5 }, dErrors.CodeInvalidQuantity},
		{"empty unit", func(r *SubmitRequest) { r.Unit = "" }, dErrors.CodeInvalidUnit},
		{"unit too long", func(r *SubmitRequest) { r.Unit = strings.Repeat("x", 21) }, dErrors.CodeInvalidUnit},
		{"urgency below range", func(r *SubmitRequest) { r.Urgency = 0 }, dErrors.CodeInvalidUrgency},
		{"urgency above range", func(r *SubmitRequest) { r.Urgency = 11 }, dErrors.CodeInvalidUrgency},
		{"description too long", func(r *SubmitRequest) { r.Description = strings.Repeat("x", 501) }, dErrors.CodeInvalidDescription},
		{"short evidence hash", func(r *SubmitRequest) { r.EvidenceHash = r.EvidenceHash[:31] }, dErrors.CodeInvalidEvidence},
		{"long evidence hash", func(r *SubmitRequest) { r.EvidenceHash = append(r.EvidenceHash, 0x01) }, dErrors.CodeInvalidEvidence},
		{"unknown category", func(r *SubmitRequest) { r.Category = "panic" }, dErrors.CodeInvalidCategory},
		{"expiry at current height", func(r *SubmitRequest) { r.Expiry = height }, dErrors.CodeInvalidExpiry},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := ValidateSubmission(req, count, max, height)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tc.wantCode),
				"want %s, got %v", tc.wantCode, err)
		})
	}

	t.Run("empty description allowed", func(t *testing.T) {
		req := validRequest()
		req.Description = ""
		assert.NoError(t, ValidateSubmission(req, count, max, height))
	})

	t.Run("capacity check fires before field checks", func(t *testing.T) {
		req := validRequest()
		req.Location = ""
		err := ValidateSubmission(req, 1, 1, height)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeCapacityExceeded))
	})

	t.Run("first failure wins over later violations", func(t *testing.T) {
		req := validRequest()
		req.Latitude = 99_000_000
		req.Urgency = 0
		err := ValidateSubmission(req, count, max, height)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidLatitude))
	})
}

func TestValidateAmendment(t *testing.T) {
	t.Run("valid amendment passes", func(t *testing.T) {
		assert.NoError(t, ValidateAmendment(1500, 9, "New desc"))
	})

	t.Run("quantity checked first", func(t *testing.T) {
		err := ValidateAmendment(0, 99, strings.Repeat("x", 600))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidQuantity))
	})

	t.Run("urgency checked second", func(t *testing.T) {
		err := ValidateAmendment(10, 0, strings.Repeat("x", 600))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidUrgency))
	})

	t.Run("description checked last", func(t *testing.T) {
		err := ValidateAmendment(10, 5, strings.Repeat("x", 600))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDescription))
	})
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock(5)
	assert.Equal(t, uint64(5), clock.Height())
	clock.Advance(3)
	assert.Equal(t, uint64(8), clock.Height())
}
