package assets

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"sfxpool/sfx"
)

// BankSpec describes a bank in terms of files relative to the asset root
type BankSpec struct {
	Name     string
	Files    []string
	PitchMin float64
	PitchMax float64
	Order    Order
}

// Library resolves sound names to banks
type Library struct {
	mu    sync.RWMutex
	banks map[string]*Bank
}

// NewLibrary builds a library from the clips in cache. Every configured
// BankSpec becomes a bank; every remaining clip is exposed as a single-variant
// bank under its file key.
func NewLibrary(cache *Cache, dir string, specs []BankSpec) (*Library, error) {
	l := &Library{banks: make(map[string]*Bank)}
	used := make(map[string]bool)

	for _, bs := range specs {
		clips := make([]*sfx.Clip, 0, len(bs.Files))
		for _, f := range bs.Files {
			p := path.Join(dir, f)
			clip, err := cache.Load(p)
			if err != nil {
				return nil, fmt.Errorf("failed to load bank %s: %w", bs.Name, err)
			}
			clips = append(clips, clip)
			used[p] = true
		}

		opts := []BankOption{WithPitchRange(bs.PitchMin, bs.PitchMax)}
		if bs.Order != "" {
			opts = append(opts, WithOrder(bs.Order))
		}
		b, err := NewBank(bs.Name, clips, opts...)
		if err != nil {
			return nil, err
		}
		l.banks[bs.Name] = b
	}

	for _, p := range cache.Paths() {
		if used[p] {
			continue
		}
		clip, _ := cache.Get(p)
		if _, exists := l.banks[clip.Name]; exists {
			continue
		}
		b, err := NewBank(clip.Name, []*sfx.Clip{clip})
		if err != nil {
			return nil, err
		}
		l.banks[clip.Name] = b
	}
	return l, nil
}

// Sound returns the bank registered under name
func (l *Library) Sound(name string) (*Bank, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.banks[name]
	return b, ok
}

// Names returns every bank name in sorted order
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.banks))
	for n := range l.banks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
