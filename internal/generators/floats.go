package generators

import (
	"math/rand"
	"time"
)

// FloatGenerator draws a uniform real in [Min, Max).
type FloatGenerator struct {
	Min float64
	Max float64
}

func (g *FloatGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	return g.Min + rng.Float64()*(g.Max-g.Min)
}
