package assets

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"sfxpool/sfx"
)

// Order picks which variant a Bank returns next
type Order string

const (
	OrderRandom   Order = "random"
	OrderSequence Order = "sequence"
)

// ErrEmptyBank is returned when a bank is built without clips
var ErrEmptyBank = errors.New("sound bank has no clips")

// Bank is a logical sound effect backed by one or more clip variants and a
// pitch range. It implements sfx.Descriptor.
type Bank struct {
	name     string
	clips    []*sfx.Clip
	pitchMin float64
	pitchMax float64
	order    Order

	mu   sync.Mutex
	rng  *rand.Rand
	next int
	last int
}

var _ sfx.Descriptor = (*Bank)(nil)

// BankOption configures a Bank
type BankOption func(*Bank)

// WithPitchRange makes every resolution draw a pitch uniformly in [min, max]
func WithPitchRange(min, max float64) BankOption {
	return func(b *Bank) {
		b.pitchMin, b.pitchMax = min, max
	}
}

// WithOrder selects random or round-robin variant order
func WithOrder(o Order) BankOption {
	return func(b *Bank) {
		b.order = o
	}
}

// WithSource replaces the random source, mostly for reproducible tests
func WithSource(src rand.Source) BankOption {
	return func(b *Bank) {
		b.rng = rand.New(src)
	}
}

// NewBank creates a bank named name over clips
func NewBank(name string, clips []*sfx.Clip, opts ...BankOption) (*Bank, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyBank)
	}

	b := &Bank{
		name:     name,
		clips:    clips,
		pitchMin: 1,
		pitchMax: 1,
		order:    OrderRandom,
		last:     -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if b.pitchMax < b.pitchMin {
		b.pitchMin, b.pitchMax = b.pitchMax, b.pitchMin
	}
	switch b.order {
	case OrderRandom, OrderSequence:
	default:
		return nil, fmt.Errorf("%s: unknown order %q", name, b.order)
	}
	return b, nil
}

// Name returns the bank name
func (b *Bank) Name() string {
	return b.name
}

// Clips returns the bank variants
func (b *Bank) Clips() []*sfx.Clip {
	return b.clips
}

// NextClip returns the next variant. Random order never repeats the previous
// variant when there is more than one.
func (b *Bank) NextClip() *sfx.Clip {
	b.mu.Lock()
	defer b.mu.Unlock()

	var i int
	switch {
	case len(b.clips) == 1:
		i = 0
	case b.order == OrderSequence:
		i = b.next
		b.next = (b.next + 1) % len(b.clips)
	case b.last < 0:
		i = b.rng.IntN(len(b.clips))
	default:
		i = b.rng.IntN(len(b.clips) - 1)
		if i >= b.last {
			i++
		}
	}
	b.last = i
	return b.clips[i]
}

// NextPitch draws a pitch from the bank range
func (b *Bank) NextPitch() float64 {
	if b.pitchMin == b.pitchMax {
		return b.pitchMin
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pitchMin + b.rng.Float64()*(b.pitchMax-b.pitchMin)
}
