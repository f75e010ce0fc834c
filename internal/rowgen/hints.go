package rowgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/generators"
	"github.com/akopylov/chfill/internal/timeutil"
)

// hint is a per-column override resolved once at construction. Each variant
// draws from a constrained domain instead of the type's default domain.
type hint interface {
	draw(rng *rand.Rand, now time.Time) interface{}
}

type enumHint struct {
	values []interface{}
}

func (h *enumHint) draw(rng *rand.Rand, now time.Time) interface{} {
	return h.values[rng.Intn(len(h.values))]
}

type intRangeHint struct {
	low, high int64 // inclusive bounds
}

func (h *intRangeHint) draw(rng *rand.Rand, now time.Time) interface{} {
	return h.low + rng.Int63n(h.high-h.low+1)
}

type floatRangeHint struct {
	low, high float64
}

func (h *floatRangeHint) draw(rng *rand.Rand, now time.Time) interface{} {
	return h.low + rng.Float64()*(h.high-h.low)
}

type dateRangeHint struct {
	start, end time.Time
	dateOnly   bool // coerce to a calendar date for Date columns
}

func (h *dateRangeHint) draw(rng *rand.Rand, now time.Time) interface{} {
	delta := int64(h.end.Sub(h.start) / time.Second)
	t := h.start.Add(time.Duration(rng.Int63n(delta+1)) * time.Second)
	if h.dateOnly {
		return domain.CivilDateOf(t)
	}
	return t
}

type valueHint struct {
	fn func(rng *rand.Rand) interface{}
}

func (h *valueHint) draw(rng *rand.Rand, now time.Time) interface{} {
	return h.fn(rng)
}

// resolveHint classifies a raw hint payload for one column. A nil hint with a
// nil error means the shape was not recognized: the caller logs a warning and
// falls back to type-based generation. Malformed payloads inside a recognized
// shape (bad ISO strings, inverted bounds) are construction errors.
func resolveHint(raw interface{}, col domain.ColumnSpec) (hint, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		if kind, ok := v["kind"].(string); ok {
			return resolveTaggedHint(kind, v, col)
		}
		_, hasStart := v["start"]
		_, hasEnd := v["end"]
		if hasStart && hasEnd {
			return resolveDateRange(v["start"], v["end"], col)
		}
		return nil, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) == 2 && isNumber(v[0]) && isNumber(v[1]) {
			return resolveNumericRange(v[0], v[1], col)
		}
		return &enumHint{values: v}, nil
	default:
		return nil, nil
	}
}

// resolveTaggedHint handles the explicit {"kind": ...} form, which exists so
// that an enumeration of exactly two numbers cannot be mistaken for a range.
func resolveTaggedHint(kind string, payload map[string]interface{}, col domain.ColumnSpec) (hint, error) {
	switch kind {
	case "enum":
		values, ok := payload["values"].([]interface{})
		if !ok || len(values) == 0 {
			return nil, fmt.Errorf("column %q: enum hint needs a non-empty 'values' list", col.Name)
		}
		return &enumHint{values: values}, nil
	case "int_range", "float_range":
		low, hasLow := payload["min"]
		high, hasHigh := payload["max"]
		if !hasLow || !hasHigh {
			return nil, fmt.Errorf("column %q: %s hint needs 'min' and 'max'", col.Name, kind)
		}
		if !isNumber(low) || !isNumber(high) {
			return nil, fmt.Errorf("column %q: %s bounds must be numeric", col.Name, kind)
		}
		if kind == "float_range" {
			return newFloatRange(asFloat64(low), asFloat64(high), col)
		}
		return newIntRange(asInt64(low), asInt64(high), col)
	case "date_range":
		start, hasStart := payload["start"]
		end, hasEnd := payload["end"]
		if !hasStart || !hasEnd {
			return nil, fmt.Errorf("column %q: date_range hint needs 'start' and 'end'", col.Name)
		}
		return resolveDateRange(start, end, col)
	case "faker":
		provider, _ := payload["provider"].(string)
		fn, ok := generators.FakerProvider(provider)
		if !ok {
			return nil, fmt.Errorf("column %q: unknown faker provider %q", col.Name, provider)
		}
		return &valueHint{fn: fn}, nil
	default:
		return nil, nil
	}
}

func resolveNumericRange(low, high interface{}, col domain.ColumnSpec) (hint, error) {
	if strings.Contains(col.BaseType(), "Float") {
		return newFloatRange(asFloat64(low), asFloat64(high), col)
	}
	return newIntRange(asInt64(low), asInt64(high), col)
}

func newIntRange(low, high int64, col domain.ColumnSpec) (hint, error) {
	if low > high {
		return nil, fmt.Errorf("column %q: range bounds inverted: [%d, %d]", col.Name, low, high)
	}
	return &intRangeHint{low: low, high: high}, nil
}

func newFloatRange(low, high float64, col domain.ColumnSpec) (hint, error) {
	if low > high {
		return nil, fmt.Errorf("column %q: range bounds inverted: [%v, %v]", col.Name, low, high)
	}
	return &floatRangeHint{low: low, high: high}, nil
}

func resolveDateRange(startRaw, endRaw interface{}, col domain.ColumnSpec) (hint, error) {
	startStr, ok := startRaw.(string)
	if !ok {
		return nil, fmt.Errorf("column %q: date range 'start' must be a string", col.Name)
	}
	endStr, ok := endRaw.(string)
	if !ok {
		return nil, fmt.Errorf("column %q: date range 'end' must be a string", col.Name)
	}
	start, err := timeutil.ParseISO(startStr)
	if err != nil {
		return nil, fmt.Errorf("column %q: invalid range start: %w", col.Name, err)
	}
	end, err := timeutil.ParseISO(endStr)
	if err != nil {
		return nil, fmt.Errorf("column %q: invalid range end: %w", col.Name, err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("column %q: range start %s is after end %s", col.Name, startStr, endStr)
	}
	base := col.BaseType()
	return &dateRangeHint{
		start:    start,
		end:      end,
		dateOnly: base == "Date" || base == "Date32",
	}, nil
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func asInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

func asFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return float64(asInt64(v))
	}
}
