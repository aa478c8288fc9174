package sfx

import (
	"math"

	"github.com/gopxl/beep/v2"
)

// Vec3 is a position in world space
type Vec3 struct {
	X, Y, Z float64
}

// Origin is the position used by non-positional playback
var Origin = Vec3{}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Len returns the euclidean length of v
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Clip is a decoded sound held in memory
type Clip struct {
	Name   string
	Buffer *beep.Buffer
}

// Route names the output bus a channel is mixed into
type Route string

// DefaultRoute is used when no route is configured
const DefaultRoute Route = "sfx"

// Settings are the playback parameters applied to a channel before it starts
type Settings struct {
	Position     Vec3
	Volume       float64
	Pitch        float64
	SpatialBlend float64 // 0 is non-positional, 1 is fully positional
	Route        Route
}

// Descriptor is a logical sound effect that resolves to a concrete clip and
// pitch on every call. Implementations may be randomized or stateful.
type Descriptor interface {
	NextClip() *Clip
	NextPitch() float64
}

// Voice is the output capability behind a channel.
//
// Start replaces whatever the voice is playing and begins playback at once;
// IsBusy must report true when Start returns and false again once the clip
// has been fully output.
type Voice interface {
	Start(clip *Clip, s Settings)
	IsBusy() bool
}

// VoiceFactory allocates the voices of a pool. A new voice is idle, does not
// loop and does not start on its own.
type VoiceFactory interface {
	NewVoice(index int) (Voice, error)
}

// VoiceFactoryFunc adapts a function to VoiceFactory
type VoiceFactoryFunc func(index int) (Voice, error)

// NewVoice implements VoiceFactory
func (f VoiceFactoryFunc) NewVoice(index int) (Voice, error) {
	return f(index)
}
