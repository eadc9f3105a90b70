package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

type SortMode string

const (
	SortPriceAsc   SortMode = "price-asc"
	SortPriceDesc  SortMode = "price-desc"
	SortMostLiked  SortMode = "most-liked"
	SortLeastLiked SortMode = "least-liked"
	SortRandom     SortMode = "random"
	SortNone       SortMode = "none"
)

var ErrInvalidSortMode = errors.New("invalid sort mode")

// ParseSortMode accepts the canonical names; "" yields SortRandom.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(s); mode {
	case "":
		return SortRandom, nil
	case SortPriceAsc, SortPriceDesc, SortMostLiked, SortLeastLiked, SortRandom, SortNone:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortMode, s)
}

// RandomKeys hands out one random key per item id and keeps it for the
// lifetime of the provider, so the random order does not reshuffle.
type RandomKeys struct {
	mu   sync.Mutex
	keys map[string]float64
	rnd  func() float64
}

func NewRandomKeys() *RandomKeys {
	return &RandomKeys{keys: make(map[string]float64), rnd: rand.Float64}
}

// NewRandomKeysWithSource uses rnd to generate keys.
func NewRandomKeysWithSource(rnd func() float64) *RandomKeys {
	return &RandomKeys{keys: make(map[string]float64), rnd: rnd}
}

func (r *RandomKeys) Key(id string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if k, ok := r.keys[id]; ok {
		return k
	}
	k := r.rnd()
	r.keys[id] = k
	return k
}

func (r *RandomKeys) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// SortState is the selected ordering for one screen, passed explicitly to
// whatever renders the list. The random key cache may be shared between
// screens.
type SortState struct {
	mode SortMode
	keys *RandomKeys
}

func NewSortState(keys *RandomKeys) *SortState {
	if keys == nil {
		keys = NewRandomKeys()
	}
	return &SortState{mode: SortNone, keys: keys}
}

// Mount resets the selection to random, as every catalog screen does on mount.
func (s *SortState) Mount() {
	s.mode = SortRandom
}

func (s *SortState) Select(mode SortMode) {
	s.mode = mode
}

func (s *SortState) Mode() SortMode {
	return s.mode
}

func (s *SortState) Keys() *RandomKeys {
	return s.keys
}
