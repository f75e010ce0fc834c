package generators

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
)

// FakerProvider resolves the provider name of a faker hint to a value
// function. Providers backed by go-faker use its own randomness and are
// therefore not covered by the run seed; "city" draws from the rng and stays
// reproducible.
func FakerProvider(name string) (func(rng *rand.Rand) interface{}, bool) {
	switch name {
	case "name":
		return func(*rand.Rand) interface{} { return faker.Name() }, true
	case "email":
		return func(*rand.Rand) interface{} { return faker.Email() }, true
	case "username":
		return func(*rand.Rand) interface{} { return faker.Username() }, true
	case "word":
		return func(*rand.Rand) interface{} { return faker.Word() }, true
	case "sentence":
		return func(*rand.Rand) interface{} { return faker.Sentence() }, true
	case "ipv4":
		return func(*rand.Rand) interface{} { return faker.IPv4() }, true
	case "phone":
		return func(*rand.Rand) interface{} { return faker.Phonenumber() }, true
	case "url":
		return func(*rand.Rand) interface{} { return faker.URL() }, true
	case "city":
		return func(rng *rand.Rand) interface{} { return cities[rng.Intn(len(cities))] }, true
	default:
		return nil, false
	}
}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
	"San Francisco", "Indianapolis", "Seattle", "Denver", "Washington",
	"Boston", "Nashville", "Detroit", "Portland", "Las Vegas",
	"London", "Paris", "Tokyo", "Berlin", "Madrid",
	"Rome", "Amsterdam", "Vienna", "Prague", "Barcelona",
	"Munich", "Milan", "Stockholm", "Copenhagen", "Oslo",
}
