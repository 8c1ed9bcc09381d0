package registry

import (
	"reliefregistry/pkg/fingerprint"

	dErrors "reliefregistry/pkg/domain-errors"
)

// Field bounds for submission payloads.
const (
	MaxLocationLen    = 50
	MaxUnitLen        = 20
	MaxDescriptionLen = 500

	MinUrgency = 1
	MaxUrgency = 10

	// Latitude/longitude are fixed-point degrees scaled by 1e6.
	MinLatitude  = -90_000_000
	MaxLatitude  = 90_000_000
	MinLongitude = -180_000_000
	MaxLongitude = 180_000_000
)

// ValidateLocation checks the location is non-empty and at most 50 chars.
func ValidateLocation(location string) error {
	if location == "" || len(location) > MaxLocationLen {
		return dErrors.New(dErrors.CodeInvalidLocation, "location must be 1-50 characters")
	}
	return nil
}

// ValidateLatitude checks the fixed-point latitude range.
func ValidateLatitude(latitude int64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return dErrors.New(dErrors.CodeInvalidLatitude, "latitude out of range")
	}
	return nil
}

// ValidateLongitude checks the fixed-point longitude range.
func ValidateLongitude(longitude int64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return dErrors.New(dErrors.CodeInvalidLongitude, "longitude out of range")
	}
	return nil
}

// ValidateNeedType checks closed-set membership.
func ValidateNeedType(needType NeedType) error {
	if !needType.Valid() {
		return dErrors.New(dErrors.CodeInvalidNeedType, "unknown need type")
	}
	return nil
}

// ValidateQuantity checks the quantity is strictly positive.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return dErrors.New(dErrors.CodeInvalidQuantity, "quantity must be positive")
	}
	return nil
}

// ValidateUnit checks the unit is non-empty and at most 20 chars.
func ValidateUnit(unit string) error {
	if unit == "" || len(unit) > MaxUnitLen {
		return dErrors.New(dErrors.CodeInvalidUnit, "unit must be 1-20 characters")
	}
	return nil
}

// ValidateUrgency checks urgency is in [1,10].
func ValidateUrgency(urgency int) error {
	if urgency < MinUrgency || urgency > MaxUrgency {
		return dErrors.New(dErrors.CodeInvalidUrgency, "urgency must be in [1,10]")
	}
	return nil
}

// ValidateDescription checks the description is at most 500 chars. Empty is
// allowed.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLen {
		return dErrors.New(dErrors.CodeInvalidDescription, "description exceeds 500 characters")
	}
	return nil
}

// ValidateEvidenceHash checks the evidence fingerprint is exactly 32 bytes.
func ValidateEvidenceHash(hash []byte) error {
	if len(hash) != fingerprint.Size {
		return dErrors.New(dErrors.CodeInvalidEvidence, "evidence hash must be exactly 32 bytes")
	}
	return nil
}

// ValidateCategory checks closed-set membership.
func ValidateCategory(category Category) error {
	if !category.Valid() {
		return dErrors.New(dErrors.CodeInvalidCategory, "unknown category")
	}
	return nil
}

// ValidateExpiry checks the expiry height is strictly in the future.
func ValidateExpiry(expiry, height uint64) error {
	if expiry <= height {
		return dErrors.New(dErrors.CodeInvalidExpiry, "expiry must be after the current height")
	}
	return nil
}

// ValidateSubmission runs the full submit rule chain in its fixed order and
// returns the first violated constraint. Callers rely on this single-error,
// first-failure ordering: capacity, location, latitude, longitude, need type,
// quantity, unit, urgency, description, evidence hash, category, expiry.
func ValidateSubmission(req SubmitRequest, count, maxSubmissions, height uint64) error {
	if count >= maxSubmissions {
		return dErrors.New(dErrors.CodeCapacityExceeded, "submission cap reached")
	}
	if err := ValidateLocation(req.Location); err != nil {
		return err
	}
	if err := ValidateLatitude(req.Latitude); err != nil {
		return err
	}
	if err := ValidateLongitude(req.Longitude); err != nil {
		return err
	}
	if err := ValidateNeedType(req.NeedType); err != nil {
		return err
	}
	if err := ValidateQuantity(req.Quantity); err != nil {
		return err
	}
	if err := ValidateUnit(req.Unit); err != nil {
		return err
	}
	if err := ValidateUrgency(req.Urgency); err != nil {
		return err
	}
	if err := ValidateDescription(req.Description); err != nil {
		return err
	}
	if err := ValidateEvidenceHash(req.EvidenceHash); err != nil {
		return err
	}
	if err := ValidateCategory(req.Category); err != nil {
		return err
	}
	return ValidateExpiry(req.Expiry, height)
}

// ValidateAmendment runs the narrower amend rule chain: quantity, urgency,
// description, in that order, first failure wins.
func ValidateAmendment(quantity int64, urgency int, description string) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if err := ValidateUrgency(urgency); err != nil {
		return err
	}
	return ValidateDescription(description)
}
