package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"sfxpool/assets"
	"sfxpool/config"
	"sfxpool/logger"
	"sfxpool/playback"
	"sfxpool/sfx"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
)

// ErrUnknownSound is returned when a sound name has no bank
var ErrUnknownSound = errors.New("unknown sound")

// Host wires the playback engine, the asset library and the dispatcher
// together and owns their lifecycle
type Host struct {
	config     *config.Config
	fsys       fs.FS
	speaker    bool
	interval   time.Duration
	engine     *playback.Engine
	cache      *assets.Cache
	library    *assets.Library
	dispatcher *sfx.Dispatcher
	monitor    *Monitor
	logger     *slog.Logger
	session    string
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// Option configures a Host
type Option func(*Host)

// WithFS reads assets from fsys instead of the configured directory
func WithFS(fsys fs.FS) Option {
	return func(h *Host) {
		h.fsys = fsys
	}
}

// WithSpeaker selects whether the engine drives the audio device
func WithSpeaker(enabled bool) Option {
	return func(h *Host) {
		h.speaker = enabled
	}
}

// WithMonitorInterval sets how often pool occupancy is sampled
func WithMonitorInterval(d time.Duration) Option {
	return func(h *Host) {
		h.interval = d
	}
}

// New creates a new Host instance
func New(cfg *config.Config, opts ...Option) *Host {
	ctx, cancel := context.WithCancel(context.Background())
	session := uuid.NewString()

	h := &Host{
		config:   cfg,
		speaker:  true,
		interval: 10 * time.Second,
		logger:   logger.WithComponent("host").With(slog.String("session", session)),
		session:  session,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.fsys == nil {
		h.fsys = os.DirFS(cfg.Assets.Dir)
	}
	return h
}

// Initialize sets up the engine, decodes assets and allocates the channel
// pool. Nothing can be played before it returns.
func (h *Host) Initialize() error {
	h.logger.Info("Initializing host...")

	buses := make(map[sfx.Route]float64, len(h.config.Output.Buses))
	for route, gain := range h.config.Output.Buses {
		buses[sfx.Route(route)] = gain
	}

	engine, err := playback.NewEngine(playback.Options{
		SampleRate:   beep.SampleRate(h.config.Audio.SampleRate),
		BufferSize:   h.config.Audio.Buffer,
		Quality:      h.config.Audio.Quality,
		MasterVolume: h.config.Audio.MasterVolume,
		Buses:        buses,
		Spatial: playback.SpatialModel{
			RefDistance: h.config.Spatial.RefDistance,
			Rolloff:     h.config.Spatial.Rolloff,
			MaxDistance: h.config.Spatial.MaxDistance,
		},
		Speaker: h.speaker,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback: %w", err)
	}
	h.engine = engine

	h.cache = assets.NewCache(h.fsys)
	if err := h.cache.LoadAll("."); err != nil {
		h.engine.Close()
		return fmt.Errorf("failed to load assets: %w", err)
	}

	library, err := assets.NewLibrary(h.cache, ".", h.bankSpecs())
	if err != nil {
		h.engine.Close()
		return fmt.Errorf("failed to build sound library: %w", err)
	}
	h.library = library

	h.dispatcher = sfx.NewDispatcher(h.engine,
		sfx.WithRoute(sfx.Route(h.config.Pool.Route)),
		sfx.WithLogger(logger.WithComponent("dispatcher").With(slog.String("session", h.session))))
	if err := h.dispatcher.Init(h.config.Pool.SourceAmount); err != nil {
		h.engine.Close()
		return fmt.Errorf("failed to initialize channel pool: %w", err)
	}
	h.monitor = NewMonitor(h.dispatcher, h.interval, &h.wg)

	h.logger.Info("Host initialized successfully",
		slog.Int("sounds", len(h.library.Names())),
		slog.Int("channels", h.config.Pool.SourceAmount))
	return nil
}

func (h *Host) bankSpecs() []assets.BankSpec {
	specs := make([]assets.BankSpec, 0, len(h.config.Sounds))
	for _, name := range h.config.SoundNames() {
		s := h.config.Sounds[name]
		min, max := s.Pitch()
		specs = append(specs, assets.BankSpec{
			Name:     name,
			Files:    s.Files,
			PitchMin: min,
			PitchMax: max,
			Order:    assets.Order(s.Order),
		})
	}
	return specs
}

// Start begins background monitoring
func (h *Host) Start() error {
	if h.monitor == nil {
		return sfx.ErrNotInitialized
	}
	h.logger.Info("Starting host operations...")
	h.monitor.Start(h.ctx)
	return nil
}

// Stop gracefully shuts everything down
func (h *Host) Stop() error {
	h.logger.Info("Stopping host...")

	// Cancel context to stop all operations
	h.cancel()

	// Wait for all goroutines to finish
	h.wg.Wait()

	var errs []error
	if h.dispatcher != nil {
		if err := h.dispatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel pool: %w", err))
		}
	}
	if h.engine != nil {
		if err := h.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close playback: %w", err))
		}
	}

	h.logger.Info("Host stopped")
	return errors.Join(errs...)
}

// Play plays the named sound without positioning
func (h *Host) Play(name string, opts ...sfx.PlayOption) error {
	b, err := h.sound(name)
	if err != nil {
		return err
	}
	return h.dispatcher.PlaySound(b, opts...)
}

// PlayAt plays the named sound at pos
func (h *Host) PlayAt(name string, pos sfx.Vec3, opts ...sfx.PlayOption) error {
	b, err := h.sound(name)
	if err != nil {
		return err
	}
	return h.dispatcher.PlaySoundAt(b, pos, opts...)
}

func (h *Host) sound(name string) (*assets.Bank, error) {
	if h.library == nil {
		return nil, sfx.ErrNotInitialized
	}
	b, ok := h.library.Sound(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}
	return b, nil
}

// Session returns the id stamped on every log line of this host
func (h *Host) Session() string {
	return h.session
}

// Engine returns the playback engine
func (h *Host) Engine() *playback.Engine {
	return h.engine
}

// Library returns the sound library
func (h *Host) Library() *assets.Library {
	return h.library
}

// Cache returns the decoded clip cache
func (h *Host) Cache() *assets.Cache {
	return h.cache
}

// Dispatcher returns the sound dispatcher
func (h *Host) Dispatcher() *sfx.Dispatcher {
	return h.dispatcher
}
