package sfx

import (
	"errors"
	"sync"
)

// fakeVoice records every Start and lets tests drive busy state by hand
type fakeVoice struct {
	mu       sync.Mutex
	index    int
	busy     bool
	starts   int
	clip     *Clip
	settings Settings
	closed   bool
	closeErr error
}

func (v *fakeVoice) Start(clip *Clip, s Settings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.starts++
	v.clip = clip
	v.settings = s
	v.busy = true
}

func (v *fakeVoice) IsBusy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy
}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return v.closeErr
}

// finish marks the clip as fully output
func (v *fakeVoice) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
}

func (v *fakeVoice) startCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.starts
}

type fakeFactory struct {
	voices []*fakeVoice
	failAt int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{failAt: -1}
}

func (f *fakeFactory) NewVoice(index int) (Voice, error) {
	if index == f.failAt {
		return nil, errors.New("device exhausted")
	}
	v := &fakeVoice{index: index}
	f.voices = append(f.voices, v)
	return v, nil
}

// fakeSound cycles through clips and pitches on every call
type fakeSound struct {
	clips   []*Clip
	pitches []float64
	next    int
	pnext   int
}

func (s *fakeSound) NextClip() *Clip {
	c := s.clips[s.next%len(s.clips)]
	s.next++
	return c
}

func (s *fakeSound) NextPitch() float64 {
	p := s.pitches[s.pnext%len(s.pitches)]
	s.pnext++
	return p
}
