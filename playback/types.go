package playback

import (
	"log/slog"
	"sync"
	"time"

	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// Engine mixes every voice into a single output. With Options.Speaker set it
// drives the system audio device; otherwise it is rendered on demand.
type Engine struct {
	mixer      *beep.Mixer
	ctrl       *beep.Ctrl
	master     *effects.Volume
	mu         sync.RWMutex
	buses      map[sfx.Route]*Bus
	voices     []*Voice
	listener   sfx.Vec3
	spatial    SpatialModel
	sampleRate beep.SampleRate
	quality    int
	speaker    bool
	closed     bool
	logger     *slog.Logger
}

// Options configures a new Engine
type Options struct {
	SampleRate   beep.SampleRate
	BufferSize   time.Duration
	Quality      int
	MasterVolume float64
	Buses        map[sfx.Route]float64
	Spatial      SpatialModel

	// Speaker opens the system audio device
	Speaker bool
}

// Bus is an output route with its own gain
type Bus struct {
	name sfx.Route
	mu   sync.RWMutex
	gain float64
}

// Name returns the route served by the bus
func (b *Bus) Name() sfx.Route {
	return b.name
}

// Gain returns the linear bus gain
func (b *Bus) Gain() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gain
}

func (b *Bus) setGain(g float64) {
	b.mu.Lock()
	b.gain = g
	b.mu.Unlock()
}
