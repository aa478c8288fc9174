package playback

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the output rate used when Options leaves it unset
var DefaultSampleRate = beep.SampleRate(48000)

var _ sfx.VoiceFactory = (*Engine)(nil)

// NewEngine creates a new Engine
func NewEngine(opts Options) (*Engine, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 100 * time.Millisecond
	}
	if opts.Quality <= 0 {
		opts.Quality = 4
	}
	if opts.Spatial == (SpatialModel{}) {
		opts.Spatial = DefaultSpatialModel()
	}

	if opts.Speaker {
		// Initialize the speaker with the given sample rate
		err := speaker.Init(opts.SampleRate, opts.SampleRate.N(opts.BufferSize))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize speaker: %w", err)
		}
	}

	mixer := &beep.Mixer{}
	master := &effects.Volume{Streamer: mixer, Base: 2}
	ctrl := &beep.Ctrl{Streamer: master}

	e := &Engine{
		mixer:      mixer,
		ctrl:       ctrl,
		master:     master,
		buses:      make(map[sfx.Route]*Bus),
		spatial:    opts.Spatial,
		sampleRate: opts.SampleRate,
		quality:    opts.Quality,
		speaker:    opts.Speaker,
		logger:     slog.With("component", "playback"),
	}
	e.setMasterVolume(opts.MasterVolume)
	for route, gain := range opts.Buses {
		e.SetBusGain(route, gain)
	}

	if e.speaker {
		// Start playing the mixer
		speaker.Play(ctrl)
	}

	e.logger.Info("Playback engine ready",
		slog.Int("sample_rate", int(opts.SampleRate)),
		slog.Bool("speaker", opts.Speaker))
	return e, nil
}

// NewVoice adds a silent slot to the mixer. It implements sfx.VoiceFactory.
func (e *Engine) NewVoice(index int) (sfx.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("playback is closed")
	}

	v := &Voice{index: index, engine: e}
	e.lock()
	e.mixer.Add(v)
	e.unlock()
	e.voices = append(e.voices, v)
	return v, nil
}

func (e *Engine) removeVoice(v *Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices = slices.DeleteFunc(e.voices, func(o *Voice) bool { return o == v })
}

// SampleRate returns the output sample rate
func (e *Engine) SampleRate() beep.SampleRate {
	return e.sampleRate
}

// Format returns the output format
func (e *Engine) Format() beep.Format {
	return beep.Format{SampleRate: e.sampleRate, NumChannels: 2, Precision: 2}
}

// Bus returns the bus for route, creating it at unity gain
func (e *Engine) Bus(route sfx.Route) *Bus {
	e.mu.RLock()
	b, ok := e.buses[route]
	e.mu.RUnlock()
	if ok {
		return b
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.buses[route]; ok {
		return b
	}
	b = &Bus{name: route, gain: 1}
	e.buses[route] = b
	return b
}

// SetBusGain sets the linear gain of route, applied to sounds as they start
func (e *Engine) SetBusGain(route sfx.Route, gain float64) {
	e.Bus(route).setGain(math.Max(gain, 0))
}

// SetListener moves the point positional sounds are heard from
func (e *Engine) SetListener(pos sfx.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = pos
}

// Listener returns the current listener position
func (e *Engine) Listener() sfx.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.listener
}

// SetMasterVolume sets the volume for the entire output (0.0 to 1.0)
func (e *Engine) SetMasterVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.lock()
		e.setMasterVolume(volume)
		e.unlock()
	}
}

func (e *Engine) setMasterVolume(volume float64) {
	volume = clamp(volume, 0, 1)
	e.master.Silent = volume == 0
	if volume > 0 {
		e.master.Volume = math.Log2(volume)
	}
}

// Pause pauses the output; voices keep their position
func (e *Engine) Pause() {
	e.setPaused(true)
}

// Resume resumes the output
func (e *Engine) Resume() {
	e.setPaused(false)
}

func (e *Engine) setPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.lock()
		e.ctrl.Paused = paused
		e.unlock()
	}
}

// IsPlaying returns true if the output is running
func (e *Engine) IsPlaying() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return false
	}

	e.lock()
	playing := !e.ctrl.Paused
	e.unlock()

	return playing
}

// Active returns how many voices are currently outputting a clip
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := 0
	for _, v := range e.voices {
		if v.IsBusy() {
			n++
		}
	}
	return n
}

// Stream mixes the next len(samples) frames. It is how the speaker pulls
// audio and lets callers render without a device.
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	return e.ctrl.Stream(samples)
}

// Err implements beep.Streamer
func (e *Engine) Err() error {
	return nil
}

// Close closes the engine and releases the audio device
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.closed = true

	e.lock()
	e.mixer.Clear()
	for _, v := range e.voices {
		v.stop()
	}
	e.voices = nil
	e.unlock()

	if e.speaker {
		// Close the speaker
		speaker.Close()
	}

	e.logger.Info("Playback engine closed")
	return nil
}

func (e *Engine) lock() {
	if e.speaker {
		speaker.Lock()
	}
}

func (e *Engine) unlock() {
	if e.speaker {
		speaker.Unlock()
	}
}
