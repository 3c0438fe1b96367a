package utils

import "github.com/google/uuid"

// UUIDGenerator produces the opaque IDs under which rendered documents and
// protection secrets are stored in the blob store.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered V7 UUID so blob listings sort roughly by
// creation time, falling back to V4 when the clock source misbehaves.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
