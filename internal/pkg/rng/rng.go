// Package rng provides the seeded pseudo-random source that every game
// resolution component draws from.
//
// The generator is a 32-bit linear congruential generator using the
// Numerical Recipes constants. Its whole state is a single uint32, so a
// session can be saved and restored exactly with State and SetState. Given
// the same seed and the same sequence of calls, every derived operation
// returns the same values.
//
// An RNG is not safe for concurrent use. A game session owns exactly one.
package rng

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/uuid"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// RNG is a deterministic random number generator
type RNG struct {
	state uint32
}

// TwoD6 is the result of rolling two six-sided dice
type TwoD6 struct {
	Total int `json:"total"`
	Die1  int `json:"die1"`
	Die2  int `json:"die2"`
}

// Weighted pairs an item with its selection weight
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// Ensure RNG can drive rpg-toolkit dice
var _ dice.Roller = (*RNG)(nil)

// New creates a generator from an integer seed
func New(seed uint32) *RNG {
	return &RNG{state: seed}
}

// NewFromInt creates a generator from a signed seed, reduced modulo 2^32
func NewFromInt(seed int64) *RNG {
	return New(uint32(seed))
}

// NewFromString creates a generator from a string seed.
// The string is reduced with a rolling hash (h = h*31 + c) over its UTF-16
// code units in signed 32-bit arithmetic; the absolute value seeds the state.
func NewFromString(seed string) *RNG {
	return New(HashString(seed))
}

// NewFromSeed reads a user supplied seed. Decimal integers are used as
// numbers; anything else is hashed as a string.
func NewFromSeed(seed string) *RNG {
	if n, err := strconv.ParseInt(strings.TrimSpace(seed), 10, 64); err == nil {
		return NewFromInt(n)
	}
	return NewFromString(seed)
}

// HashString reduces a string to the seed NewFromString would use
func HashString(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return uint32(v)
}

// State returns the current internal state
func (r *RNG) State() uint32 {
	return r.state
}

// SetState restores a state previously returned by State
func (r *RNG) SetState(state uint32) {
	r.state = state
}

// Clone returns an independent generator at the same state
func (r *RNG) Clone() *RNG {
	return &RNG{state: r.state}
}

// Next advances the generator and returns a value in [0, 1)
func (r *RNG) Next() float64 {
	r.state = r.state*multiplier + increment
	return float64(r.state) / modulus
}

// NextInt returns an integer in [min, max], both inclusive
func (r *RNG) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// NextFloat returns a float in [min, max)
func (r *RNG) NextFloat(min, max float64) float64 {
	return r.Next()*(max-min) + min
}

// Chance returns true with probability p
func (r *RNG) Chance(p float64) bool {
	return r.Next() < p
}

// Roll2d6 rolls two six-sided dice
func (r *RNG) Roll2d6() TwoD6 {
	d1 := r.NextInt(1, 6)
	d2 := r.NextInt(1, 6)
	return TwoD6{Total: d1 + d2, Die1: d1, Die2: d2}
}

// Roll implements dice.Roller, returning a value in [1, size]
func (r *RNG) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, errors.InvalidArgumentf("die size must be positive: %d", size)
	}
	return r.NextInt(1, size), nil
}

// RollN implements dice.Roller, rolling count dice of the given size
func (r *RNG) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("dice count must not be negative: %d", count)
	}
	if size <= 0 {
		return nil, errors.InvalidArgumentf("die size must be positive: %d", size)
	}
	results := make([]int, count)
	for i := range results {
		results[i] = r.NextInt(1, size)
	}
	return results, nil
}

// UUID returns a version 4 shaped UUID drawn from the seeded stream.
// Each of the 31 random hex digits consumes one call to Next.
func (r *RNG) UUID() uuid.UUID {
	var nibbles [32]byte
	for i := range nibbles {
		switch i {
		case 12:
			nibbles[i] = 0x4
		case 16:
			nibbles[i] = byte(r.nextNibble()&0x3 | 0x8)
		default:
			nibbles[i] = byte(r.nextNibble())
		}
	}

	var id uuid.UUID
	for i := range id {
		id[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return id
}

func (r *RNG) nextNibble() int {
	return int(r.Next() * 16)
}

// Pick returns one element of items chosen uniformly.
// It fails with an EmptyCollection error when items is empty.
func Pick[T any](r *RNG, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.EmptyCollection("cannot pick from an empty collection")
	}
	return items[r.NextInt(0, len(items)-1)], nil
}

// MustPick is Pick for fixed, known non-empty tables
func MustPick[T any](r *RNG, items []T) T {
	v, err := Pick(r, items)
	if err != nil {
		panic(err)
	}
	return v
}

// Shuffle returns a Fisher-Yates shuffled copy of items
func Shuffle[T any](r *RNG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// WeightedPick returns one item with probability proportional to its weight
func WeightedPick[T any](r *RNG, items []Weighted[T]) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errors.EmptyCollection("cannot pick from an empty weighted collection")
	}

	total := 0.0
	for _, it := range items {
		total += it.Weight
	}
	if total <= 0 {
		return zero, errors.InvalidArgument("weights must sum to a positive value")
	}

	roll := r.Next() * total
	for _, it := range items {
		roll -= it.Weight
		if roll <= 0 {
			return it.Item, nil
		}
	}
	return items[len(items)-1].Item, nil
}
