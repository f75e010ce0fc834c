package registry

import (
	"sort"
	"sync"

	"github.com/akopylov/chfill/internal/generators"
)

// TypeRegistry maps a base column type name to its value generator.
type TypeRegistry struct {
	mu   sync.RWMutex
	gens map[string]generators.Generator
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		gens: make(map[string]generators.Generator),
	}
}

func (r *TypeRegistry) Register(baseType string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[baseType] = gen
}

func (r *TypeRegistry) Get(baseType string) (generators.Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.gens[baseType]
	return gen, ok
}

func (r *TypeRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gens))
	for name := range r.gens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultTypeRegistry covers the ClickHouse primitive types the generator
// understands out of the box.
func DefaultTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	r.Register("UInt8", &generators.UIntGenerator{Bits: 8})
	r.Register("UInt16", &generators.UIntGenerator{Bits: 16})
	r.Register("UInt32", &generators.UIntGenerator{Bits: 32})
	r.Register("UInt64", &generators.UIntGenerator{Bits: 64})
	r.Register("Int8", &generators.IntGenerator{Bits: 8})
	r.Register("Int16", &generators.IntGenerator{Bits: 16})
	r.Register("Int32", &generators.IntGenerator{Bits: 32})
	r.Register("Int64", &generators.IntGenerator{Bits: 64})
	r.Register("Float32", &generators.FloatGenerator{Min: -1e3, Max: 1e3})
	r.Register("Float64", &generators.FloatGenerator{Min: -1e6, Max: 1e6})
	r.Register("String", &generators.StringGenerator{MinLen: 5, MaxLen: 15})
	r.Register("FixedString", &generators.StringGenerator{MinLen: 5, MaxLen: 15})
	r.Register("Date", &generators.DateGenerator{})
	r.Register("Date32", &generators.DateGenerator{})
	r.Register("DateTime", &generators.DateTimeGenerator{})
	r.Register("DateTime64", &generators.DateTimeGenerator{})
	r.Register("Bool", &generators.BoolGenerator{})
	r.Register("UUID", &generators.UUID4Generator{})
	return r
}
