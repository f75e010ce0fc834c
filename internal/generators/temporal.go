package generators

import (
	"math/rand"
	"time"

	"github.com/akopylov/chfill/internal/domain"
)

const lookbackDays = 365

// DateGenerator draws a calendar date from the year preceding the reference
// clock.
type DateGenerator struct{}

func (g *DateGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	start := now.AddDate(0, 0, -lookbackDays)
	d := start.AddDate(0, 0, rng.Intn(lookbackDays+1))
	return domain.CivilDateOf(d)
}

// DateTimeGenerator draws a whole-second timestamp from the year preceding
// the reference clock.
type DateTimeGenerator struct{}

func (g *DateTimeGenerator) Generate(rng *rand.Rand, now time.Time) interface{} {
	start := now.AddDate(0, 0, -lookbackDays)
	delta := int64(now.Sub(start) / time.Second)
	return start.Add(time.Duration(rng.Int63n(delta+1)) * time.Second).Truncate(time.Second)
}
