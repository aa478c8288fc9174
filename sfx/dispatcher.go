package sfx

import (
	"log/slog"
	"sync"
)

// Request is a single one-shot playback request. Exactly one of Clip or
// Sound is used; Sound wins when both are set, and its resolved pitch
// replaces Pitch.
type Request struct {
	Clip         *Clip
	Sound        Descriptor
	Position     Vec3
	Volume       float64
	Pitch        float64
	SpatialBlend float64
}

// Stats counts dispatcher activity since Init
type Stats struct {
	Plays  uint64
	Steals uint64
}

// Dispatcher is the fire-and-forget entry point for sound effects. It owns a
// Pool once Init has run and guards channel selection with a single mutex,
// so it is safe to call from any goroutine.
type Dispatcher struct {
	mu      sync.Mutex
	factory VoiceFactory
	pool    *Pool
	route   Route
	logger  *slog.Logger
	stats   Stats
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithRoute sets the output route applied to every channel
func WithRoute(r Route) DispatcherOption {
	return func(d *Dispatcher) {
		d.route = r
	}
}

// WithLogger replaces the dispatcher logger
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a dispatcher that will build its channels from
// factory. No channel exists until Init is called.
func NewDispatcher(factory VoiceFactory, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		factory: factory,
		route:   DefaultRoute,
		logger:  slog.With("component", "dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init allocates the channel pool. It must run once before any play call.
func (d *Dispatcher) Init(size int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool != nil {
		return ErrAlreadyInitialized
	}

	pool, err := NewPool(size, d.factory)
	if err != nil {
		return err
	}

	d.pool = pool
	d.stats = Stats{}
	d.logger.Info("Channel pool initialized",
		slog.Int("channels", size),
		slog.String("route", string(d.route)))
	return nil
}

// Close tears the pool down. Play calls fail with ErrNotInitialized until
// Init runs again.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool == nil {
		return nil
	}
	err := d.pool.Close()
	d.pool = nil
	return err
}

// Pool returns the channel pool, or nil before Init
func (d *Dispatcher) Pool() *Pool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool
}

// Route returns the output route applied to every channel
func (d *Dispatcher) Route() Route {
	return d.route
}

// Stats returns a snapshot of the dispatcher counters
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Dispatch resolves req, claims a channel, configures it and starts it. It
// returns as soon as playback has been triggered. Running out of channels
// is not an error: the lowest channel is stolen instead.
func (d *Dispatcher) Dispatch(req Request) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pool == nil {
		return ErrNotInitialized
	}

	clip, pitch := req.Clip, req.Pitch
	if req.Sound != nil {
		clip = req.Sound.NextClip()
		pitch = req.Sound.NextPitch()
	} else if clip == nil {
		return ErrNoSource
	}

	ch := d.pool.FindIdle()
	if ch.IsBusy() {
		d.stats.Steals++
		d.logger.Debug("Stealing busy channel",
			slog.Int("channel", ch.Index()),
			slog.String("clip", clipName(ch.Clip())))
	}

	ch.configure(clip, Settings{
		Position:     req.Position,
		Volume:       req.Volume,
		Pitch:        pitch,
		SpatialBlend: req.SpatialBlend,
		Route:        d.route,
	})
	ch.play()
	d.stats.Plays++
	return nil
}

// Play plays clip without positioning
func (d *Dispatcher) Play(clip *Clip, opts ...PlayOption) error {
	return d.Dispatch(newRequest(opts).flat(clip, nil))
}

// PlayAt plays clip fully positioned at pos
func (d *Dispatcher) PlayAt(clip *Clip, pos Vec3, opts ...PlayOption) error {
	return d.Dispatch(newRequest(opts).at(clip, nil, pos))
}

// PlaySound resolves sound and plays it without positioning
func (d *Dispatcher) PlaySound(sound Descriptor, opts ...PlayOption) error {
	return d.Dispatch(newRequest(opts).flat(nil, sound))
}

// PlaySoundAt resolves sound and plays it fully positioned at pos
func (d *Dispatcher) PlaySoundAt(sound Descriptor, pos Vec3, opts ...PlayOption) error {
	return d.Dispatch(newRequest(opts).at(nil, sound, pos))
}

func clipName(c *Clip) string {
	if c == nil {
		return ""
	}
	return c.Name
}
