package generators

import (
	"math/rand"
	"time"
)

// UIntGenerator draws uniformly over the full unsigned range of the given
// bit width (8, 16, 32 or 64).
type UIntGenerator struct {
	Bits int
}

func (g *UIntGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	switch g.Bits {
	case 8:
		return uint64(rng.Intn(1 << 8))
	case 16:
		return uint64(rng.Intn(1 << 16))
	case 32:
		return uint64(rng.Uint32())
	default:
		return rng.Uint64()
	}
}

// IntGenerator draws uniformly over the full two's-complement range of the
// given bit width.
type IntGenerator struct {
	Bits int
}

func (g *IntGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	switch g.Bits {
	case 8:
		return int64(rng.Intn(1<<8)) - (1 << 7)
	case 16:
		return int64(rng.Intn(1<<16)) - (1 << 15)
	case 32:
		return int64(int32(rng.Uint32()))
	default:
		return int64(rng.Uint64())
	}
}
