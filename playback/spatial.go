package playback

import "sfxpool/sfx"

// SpatialModel turns a source position into gain and stereo pan
type SpatialModel struct {
	// RefDistance is the distance below which no attenuation happens
	RefDistance float64
	// Rolloff scales how fast gain falls off past RefDistance
	Rolloff float64
	// MaxDistance stops further attenuation
	MaxDistance float64
}

// DefaultSpatialModel returns inverse-distance attenuation over 50 units
func DefaultSpatialModel() SpatialModel {
	return SpatialModel{RefDistance: 1, Rolloff: 1, MaxDistance: 50}
}

// Apply returns the gain and pan for a source at pos heard from listener.
// blend mixes between flat (0) and fully positional (1) rendering.
func (m SpatialModel) Apply(listener, pos sfx.Vec3, blend float64) (gain, pan float64) {
	blend = clamp(blend, 0, 1)
	if blend == 0 {
		return 1, 0
	}

	d := pos.Sub(listener)
	dist := d.Len()

	att := 1.0
	if m.RefDistance > 0 && dist > m.RefDistance {
		if m.MaxDistance > m.RefDistance && dist > m.MaxDistance {
			dist = m.MaxDistance
		}
		att = m.RefDistance / (m.RefDistance + m.Rolloff*(dist-m.RefDistance))
	}

	side := 0.0
	if dist > 0 {
		side = clamp(d.X/d.Len(), -1, 1)
	}

	gain = (1 - blend) + blend*att
	pan = blend * side
	return gain, pan
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
