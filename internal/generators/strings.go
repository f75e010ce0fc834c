package generators

import (
	"math/rand"
	"time"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// StringGenerator produces a random alphanumeric string with a length drawn
// uniformly in [MinLen, MaxLen].
type StringGenerator struct {
	MinLen int
	MaxLen int
}

func (g *StringGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	length := g.MinLen + rng.Intn(g.MaxLen-g.MinLen+1)
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return string(b)
}
