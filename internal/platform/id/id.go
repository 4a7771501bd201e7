package id

import (
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID produces random (v4) UUID strings.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Short produces base57 short UUIDs for records that end up in flags and URLs.
type Short struct{}

func (Short) New() string {
	return shortuuid.New()
}
