package assets

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// Cache holds every decoded clip keyed by its file path
type Cache struct {
	mu     sync.RWMutex
	fsys   fs.FS
	clips  map[string]*sfx.Clip
	logger *slog.Logger
}

// NewCache creates an empty cache reading from fsys
func NewCache(fsys fs.FS) *Cache {
	return &Cache{
		fsys:   fsys,
		clips:  make(map[string]*sfx.Clip),
		logger: slog.With("component", "assets"),
	}
}

// LoadAll preloads and decodes every supported file under dir. Files that
// fail to decode are logged and skipped.
func (c *Cache) LoadAll(dir string) error {
	c.logger.Info("Preloading and decoding audio files...", slog.String("dir", dir))

	err := fs.WalkDir(c.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(p) {
			return nil
		}
		if _, err := c.Load(p); err != nil {
			c.logger.Warn("Failed to preload", slog.String("file", p), slog.Any("error", err))
		} else {
			c.logger.Debug("Successfully preloaded", slog.String("file", p))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read audio directory %s: %w", dir, err)
	}

	c.logger.Info("Preloading complete", slog.Int("clips", c.Len()))
	return nil
}

// Load returns the clip for filePath, decoding it on first use
func (c *Cache) Load(filePath string) (*sfx.Clip, error) {
	if clip, ok := c.Get(filePath); ok {
		return clip, nil
	}

	clip, err := c.decode(filePath)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.clips[filePath]; ok {
		return existing, nil
	}
	c.clips[filePath] = clip
	return clip, nil
}

// decode loads and decodes a single file into an in-memory buffer
func (c *Cache) decode(filePath string) (*sfx.Clip, error) {
	file, err := c.fsys.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(path.Ext(filePath)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	defer streamer.Close()

	// Convert streamer to buffer to store in memory
	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}

	return &sfx.Clip{Name: Key(filePath), Buffer: buffer}, nil
}

// Get retrieves a decoded clip
func (c *Cache) Get(filePath string) (*sfx.Clip, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clip, exists := c.clips[filePath]
	return clip, exists
}

// Len returns the number of decoded clips
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clips)
}

// Paths returns the cached file paths in sorted order
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.clips))
	for p := range c.clips {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Supported reports whether the file extension can be decoded
func Supported(filePath string) bool {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".mp3", ".wav":
		return true
	}
	return false
}
