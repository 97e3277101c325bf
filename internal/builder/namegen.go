package builder

import (
	"github.com/google/uuid"
)

// NameGenerator produces unique program names.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type NameGenerator interface {
	Generate() string
}

// UUIDv7Generator names programs with time-ordered UUIDs, so program names
// sort by creation time in logs and traces.
type UUIDv7Generator struct{}

// Generate returns a fresh "program-<uuidv7>" name.
func (UUIDv7Generator) Generate() string {
	return "program-" + uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator always returns the same name. Used in tests and golden
// files where program names must be deterministic.
type FixedGenerator struct {
	Name string
}

// Generate returns the fixed name.
func (g FixedGenerator) Generate() string { return g.Name }
