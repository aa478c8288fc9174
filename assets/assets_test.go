package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a constant tone of frames samples to dir/name
func writeWAV(t *testing.T, dir, name string, frames int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	tone := beep.Take(frames, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.25, -0.25}
		}
		return len(samples), true
	}))
	require.NoError(t, wav.Encode(f, tone, format))
}

func TestCacheLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "audio/Shoot.wav", 120)
	writeWAV(t, dir, "audio/impacts/Metal Hit 01.wav", 40)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio/readme.txt"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audio/broken.wav"), []byte("not a wav"), 0o644))

	c := NewCache(os.DirFS(dir))
	require.NoError(t, c.LoadAll("audio"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"audio/Shoot.wav", "audio/impacts/Metal Hit 01.wav"}, c.Paths())

	clip, ok := c.Get("audio/Shoot.wav")
	require.True(t, ok)
	assert.Equal(t, "shoot", clip.Name)
	assert.Equal(t, 120, clip.Buffer.Len())
	assert.Equal(t, beep.SampleRate(8000), clip.Buffer.Format().SampleRate)

	clip, ok = c.Get("audio/impacts/Metal Hit 01.wav")
	require.True(t, ok)
	assert.Equal(t, "metal_hit_01", clip.Name)
}

func TestCacheLoadAllMissingDir(t *testing.T) {
	c := NewCache(os.DirFS(t.TempDir()))
	require.Error(t, c.LoadAll("audio"))
}

func TestCacheLoadReturnsSameClip(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "click.wav", 10)
	c := NewCache(os.DirFS(dir))

	a, err := c.Load("click.wav")
	require.NoError(t, err)
	b, err := c.Load("click.wav")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = c.Load("missing.wav")
	require.Error(t, err)
	_, err = c.Load("click.ogg")
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "shoot.mp3", want: "shoot"},
		{name: "nested path", in: "sfx/weapons/Laser.WAV", want: "laser"},
		{name: "spaces and digits", in: "Metal Hit 01.wav", want: "metal_hit_01"},
		{name: "diacritics", in: "Épée Clash.wav", want: "epee_clash"},
		{name: "punctuation", in: "SNES-Shooter02-01(Shoot).mp3", want: "snes_shooter02_01_shoot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "double_kill", Slug("Double kill!"))
	assert.Equal(t, "mr_smith", Slug("Mr. Smith"))
	assert.Equal(t, "", Slug("!!!"))
}
