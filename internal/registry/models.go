// Package registry holds the domain model for the disaster-relief needs
// registry: submissions, amendments, and the pure validation rules that gate
// every state mutation.
package registry

import (
	"reliefregistry/pkg/fingerprint"
)

// Address identifies a principal (submitter or fee authority).
type Address string

// SubmissionID identifies a need record. IDs are dense integers assigned at
// creation, starting at 0, never reused.
type SubmissionID uint64

// NeedType labels what is needed. Closed set.
type NeedType string

const (
	NeedFood    NeedType = "food"
	NeedWater   NeedType = "water"
	NeedShelter NeedType = "shelter"
	NeedMedical NeedType = "medical"
)

// Valid reports membership in the closed need-type set.
func (n NeedType) Valid() bool {
	switch n {
	case NeedFood, NeedWater, NeedShelter, NeedMedical:
		return true
	}
	return false
}

// Category labels the phase of a relief effort. Closed set.
type Category string

const (
	CategoryEmergency Category = "emergency"
	CategoryOngoing   Category = "ongoing"
	CategoryRecovery  Category = "recovery"
)

// Valid reports membership in the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryEmergency, CategoryOngoing, CategoryRecovery:
		return true
	}
	return false
}

// Submission is one registered need record. Submitter is immutable after
// creation; quantity, urgency, description, and timestamp change only through
// amendment by the original submitter. There is no delete: records are
// permanent once created.
type Submission struct {
	ID          SubmissionID
	Location    string
	Latitude    int64 // degrees scaled by 1e6
	Longitude   int64 // degrees scaled by 1e6
	NeedType    NeedType
	Quantity    int64
	Unit        string
	Urgency     int
	Description string
	Evidence    fingerprint.Fingerprint
	Category    Category
	Expiry      uint64 // logical height, strictly after creation height
	Timestamp   uint64 // logical height of creation or last amendment
	Submitter   Address
	Active      bool
}

// Amendment is the last-applied update for a submission. At most one exists
// per submission; a repeated amendment overwrites it.
type Amendment struct {
	Quantity    int64
	Urgency     int
	Description string
	Timestamp   uint64
	Updater     Address
}

// SubmitRequest carries a submission payload before validation. EvidenceHash
// is raw bytes so the exactly-32-bytes constraint stays a validated rule
// rather than a type-level assumption.
type SubmitRequest struct {
	Location     string
	Latitude     int64
	Longitude    int64
	NeedType     NeedType
	Quantity     int64
	Unit         string
	Urgency      int
	Description  string
	EvidenceHash []byte
	Category     Category
	Expiry       uint64
}
