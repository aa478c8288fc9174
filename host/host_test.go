package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sfxpool/config"
	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, dir, name string, frames int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	tone := beep.Take(frames, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.1, 0.1}
		}
		return len(samples), true
	}))
	require.NoError(t, wav.Encode(f, tone, format))
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Pool:    config.PoolConfig{SourceAmount: 2, Route: "sfx"},
		Audio:   config.AudioConfig{SampleRate: 8000, Buffer: 50 * time.Millisecond, Quality: 2, MasterVolume: 1},
		Output:  config.OutputConfig{Buses: map[string]float64{"sfx": 1}},
		Spatial: config.SpatialConfig{RefDistance: 1, Rolloff: 1, MaxDistance: 50},
		Assets:  config.AssetsConfig{Dir: dir},
		Sounds: map[string]config.SoundConfig{
			"shoot": {Files: []string{"shoot_a.wav", "shoot_b.wav"}, PitchMin: 0.9, PitchMax: 1.1},
		},
	}
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	dir := t.TempDir()
	writeWAV(t, dir, "shoot_a.wav", 800)
	writeWAV(t, dir, "shoot_b.wav", 800)
	writeWAV(t, dir, "Coin.wav", 400)

	h := New(testConfig(dir), WithSpeaker(false), WithMonitorInterval(time.Hour))
	require.NoError(t, h.Initialize())
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func TestHostPlayBeforeInitialize(t *testing.T) {
	h := New(testConfig(t.TempDir()), WithSpeaker(false))

	require.ErrorIs(t, h.Play("shoot"), sfx.ErrNotInitialized)
	require.ErrorIs(t, h.PlayAt("shoot", sfx.Vec3{X: 1}), sfx.ErrNotInitialized)
	require.ErrorIs(t, h.Start(), sfx.ErrNotInitialized)
	require.NoError(t, h.Stop())
}

func TestHostInitializeInvalidPool(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "shoot_a.wav", 10)
	writeWAV(t, dir, "shoot_b.wav", 10)
	cfg := testConfig(dir)
	cfg.Pool.SourceAmount = 0

	h := New(cfg, WithSpeaker(false))
	err := h.Initialize()
	var cfgErr *sfx.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestHostInitializeMissingBankFile(t *testing.T) {
	h := New(testConfig(t.TempDir()), WithSpeaker(false))
	require.Error(t, h.Initialize())
}

func TestHostPlaysNamedSounds(t *testing.T) {
	h := newTestHost(t)

	assert.Equal(t, []string{"coin", "shoot"}, h.Library().Names())
	assert.NotEmpty(t, h.Session())

	require.NoError(t, h.Play("coin", sfx.WithVolume(0.5)))
	require.NoError(t, h.PlayAt("shoot", sfx.Vec3{X: 2}))
	assert.Equal(t, 2, h.Engine().Active())

	ch := h.Dispatcher().Pool().Channel(1)
	assert.Equal(t, 1.0, ch.Settings().SpatialBlend)
	assert.Contains(t, []string{"shoot_a", "shoot_b"}, ch.Clip().Name)
	assert.InDelta(t, 1.0, ch.Settings().Pitch, 0.1)

	require.ErrorIs(t, h.Play("laser"), ErrUnknownSound)
}

func TestHostOverflowIsReportedByMonitor(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Start())

	for range 3 {
		require.NoError(t, h.Play("shoot"))
	}

	o, ok := h.monitor.Sample()
	require.True(t, ok)
	assert.Equal(t, Occupancy{Busy: 2, Idle: 0, Plays: 3, Steals: 1}, o)
	assert.Equal(t, uint64(1), h.monitor.check())
	assert.Equal(t, uint64(0), h.monitor.check())

	// Let every clip run out
	buf := beep.NewBuffer(h.Engine().Format())
	require.NoError(t, h.Engine().Record(buf, 200*time.Millisecond))
	o, _ = h.monitor.Sample()
	assert.Equal(t, 0, o.Busy)
	assert.Equal(t, 2, o.Idle)
}

func TestHostStopClosesPool(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Start())
	require.NoError(t, h.Stop())

	require.ErrorIs(t, h.Play("coin"), sfx.ErrNotInitialized)
	_, ok := h.monitor.Sample()
	assert.False(t, ok)
}
