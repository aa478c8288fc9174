package sfx

// PlayOption overrides a default of the convenience play calls
type PlayOption func(*Request)

// WithVolume sets the playback volume (default 1)
func WithVolume(v float64) PlayOption {
	return func(r *Request) {
		r.Volume = v
	}
}

// WithPitch sets the playback pitch (default 1). Descriptor sources resolve
// their own pitch and ignore it.
func WithPitch(p float64) PlayOption {
	return func(r *Request) {
		r.Pitch = p
	}
}

func newRequest(opts []PlayOption) Request {
	r := Request{Volume: 1, Pitch: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r Request) flat(clip *Clip, sound Descriptor) Request {
	r.Clip, r.Sound = clip, sound
	r.Position = Origin
	r.SpatialBlend = 0
	return r
}

func (r Request) at(clip *Clip, sound Descriptor, pos Vec3) Request {
	r.Clip, r.Sound = clip, sound
	r.Position = pos
	r.SpatialBlend = 1
	return r
}
