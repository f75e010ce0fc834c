package generators

import (
	"math/rand"
	"time"
)

// Generator produces one value for a column. The caller owns the rng, so a
// fixed seed replays the same value sequence; now is the reference clock for
// temporal generators.
type Generator interface {
	Generate(rng *rand.Rand, now time.Time) interface{}
}
