package generators

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// UUID4Generator builds a version-4 UUID from the seeded rng so UUID columns
// stay reproducible under a fixed seed.
type UUID4Generator struct{}

func (g *UUID4Generator) Generate(rng *rand.Rand, now time.Time) interface{} {
	b := make([]byte, 16)
	rng.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.New().String()
	}
	return u.String()
}
