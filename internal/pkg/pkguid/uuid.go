package pkguid

import "github.com/google/uuid"

// UUID generates RFC 9562 version 4 UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new random UUID string.
func (u *UUID) Generate() string {
	return uuid.NewString()
}
