package generators

import (
	"math/rand"
	"time"
)

type BoolGenerator struct{}

func (g *BoolGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	return rng.Intn(2) == 1
}
