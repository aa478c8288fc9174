package playback

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// Voice is a permanent mixer slot. It outputs silence while idle and never
// drains, so the mixer keeps it for the whole engine lifetime.
type Voice struct {
	index  int
	engine *Engine
	mu     sync.Mutex
	cur    beep.Streamer
	closed bool
	busy   atomic.Bool
}

var _ beep.Streamer = (*Voice)(nil)
var _ sfx.Voice = (*Voice)(nil)
var _ io.Closer = (*Voice)(nil)

// Index returns the channel index the voice was created for
func (v *Voice) Index() int {
	return v.index
}

// Start cuts off the current clip, if any, and plays clip with s
func (v *Voice) Start(clip *sfx.Clip, s sfx.Settings) {
	st := v.engine.chain(clip, s)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cur = st
	v.busy.Store(st != nil)
}

// IsBusy reports whether a clip is still being output
func (v *Voice) IsBusy() bool {
	return v.busy.Load()
}

func (v *Voice) stop() {
	v.mu.Lock()
	v.cur = nil
	v.busy.Store(false)
	v.mu.Unlock()
}

// Close silences the voice and detaches it from the engine. The mixer drops
// it on its next pull.
func (v *Voice) Close() error {
	v.mu.Lock()
	v.closed = true
	v.cur = nil
	v.busy.Store(false)
	v.mu.Unlock()

	v.engine.removeVoice(v)
	return nil
}

func (v *Voice) Err() error {
	return nil
}

func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return 0, false
	}
	if v.cur != nil {
		n, ok = v.cur.Stream(samples)
		if !ok || n < len(samples) {
			v.cur = nil
			v.busy.Store(false)
		}
	}

	// Pad with silence
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

// chain builds the streamer for one play: pitch, spatial pan, then gain
func (e *Engine) chain(clip *sfx.Clip, s sfx.Settings) beep.Streamer {
	if clip == nil || clip.Buffer == nil || clip.Buffer.Len() == 0 {
		e.logger.Warn("Ignoring empty clip", slog.String("clip", clipName(clip)))
		return nil
	}
	if s.Pitch <= 0 {
		e.logger.Warn("Ignoring non-positive pitch",
			slog.String("clip", clip.Name),
			slog.Float64("pitch", s.Pitch))
		return nil
	}

	var st beep.Streamer = clip.Buffer.Streamer(0, clip.Buffer.Len())

	// Resample if necessary to match the output rate and requested pitch
	ratio := s.Pitch * float64(clip.Buffer.Format().SampleRate) / float64(e.sampleRate)
	if ratio != 1 {
		st = beep.ResampleRatio(e.quality, ratio, st)
	}

	gain, pan := e.spatial.Apply(e.Listener(), s.Position, s.SpatialBlend)
	gain *= nonNegative(s.Volume) * e.Bus(s.Route).Gain()

	if pan != 0 {
		st = &effects.Pan{Streamer: st, Pan: pan}
	}
	return &effects.Gain{Streamer: st, Gain: gain - 1}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clipName(c *sfx.Clip) string {
	if c == nil {
		return ""
	}
	return c.Name
}
