package sfx

import (
	"errors"
	"fmt"
	"io"
)

// DefaultPoolSize is the number of channels allocated when none is configured
const DefaultPoolSize = 32

// Pool owns a fixed, ordered set of channels. The set never grows or shrinks
// after NewPool returns.
type Pool struct {
	channels []*Channel
}

// NewPool allocates size channels, asking factory for one voice per channel
func NewPool(size int, factory VoiceFactory) (*Pool, error) {
	if size <= 0 {
		return nil, &ConfigurationError{
			Field:   "source_amount",
			Message: fmt.Sprintf("pool size must be positive, got %d", size),
		}
	}
	if factory == nil {
		return nil, &ConfigurationError{Field: "voices", Message: "voice factory is required"}
	}

	p := &Pool{channels: make([]*Channel, size)}
	for i := range p.channels {
		v, err := factory.NewVoice(i)
		if err != nil {
			p.close(i)
			return nil, fmt.Errorf("failed to create voice %d: %w", i, err)
		}
		p.channels[i] = &Channel{index: i, voice: v}
	}
	return p, nil
}

// FindIdle returns the lowest-index channel that is not playing. When every
// channel is busy it returns channel 0, whose current sound gets cut off.
func (p *Pool) FindIdle() *Channel {
	for _, c := range p.channels {
		if !c.IsBusy() {
			return c
		}
	}
	return p.channels[0]
}

// Len returns the number of channels
func (p *Pool) Len() int {
	return len(p.channels)
}

// Channel returns channel i
func (p *Pool) Channel(i int) *Channel {
	return p.channels[i]
}

// Busy returns how many channels are currently playing
func (p *Pool) Busy() int {
	n := 0
	for _, c := range p.channels {
		if c.IsBusy() {
			n++
		}
	}
	return n
}

// Idle returns how many channels are free
func (p *Pool) Idle() int {
	return len(p.channels) - p.Busy()
}

// Close releases every voice that holds resources
func (p *Pool) Close() error {
	return p.close(len(p.channels))
}

func (p *Pool) close(n int) error {
	var errs []error
	for _, c := range p.channels[:n] {
		if c == nil {
			continue
		}
		if closer, ok := c.voice.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close voice %d: %w", c.index, err))
			}
		}
	}
	return errors.Join(errs...)
}
