package export

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pulsekit/pulsekit/internal/sched"
)

// Domain prefix for content-addressed program identity. The version
// suffix leaves room for encoding changes without silent collisions.
const domainProgram = "pulsekit/program/v1"

// Fingerprint computes a content-addressed identity for a program:
// SHA-256 over the domain prefix, a null separator, and the canonical
// trace encoding. Two programs with identical flattened events share a
// fingerprint regardless of how their trees were composed; the program
// name is excluded so generated names do not perturb identity.
func Fingerprint(s *sched.Schedule) (string, error) {
	canonical, err := MarshalProgram(sched.Rename(s, ""))
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(domainProgram))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
