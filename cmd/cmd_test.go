package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sfxpool/config"
	"sfxpool/host"
	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsoleHost(t *testing.T) *host.Host {
	t.Helper()
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "beep.wav"))
	require.NoError(t, err)
	tone := beep.Take(400, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.2, 0.2}
		}
		return len(samples), true
	}))
	require.NoError(t, wav.Encode(f, tone, beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}))
	require.NoError(t, f.Close())

	cfg := &config.Config{
		Pool:    config.PoolConfig{SourceAmount: 2, Route: "sfx"},
		Audio:   config.AudioConfig{SampleRate: 8000, Quality: 2, MasterVolume: 1},
		Spatial: config.SpatialConfig{RefDistance: 1, Rolloff: 1, MaxDistance: 50},
		Assets:  config.AssetsConfig{Dir: dir},
	}
	h := host.New(cfg, host.WithSpeaker(false))
	require.NoError(t, h.Initialize())
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func TestConsoleCommands(t *testing.T) {
	h := newConsoleHost(t)
	var out bytes.Buffer
	c := newConsole(h, &out)

	script := []string{
		"",
		"# comment",
		"play beep",
		"play3d beep 4 0 0 0.5",
		"play beep",
		"listener 1 2 3",
		"stats",
	}
	for _, line := range script {
		assert.True(t, c.handle(line), line)
	}

	assert.Equal(t, sfx.Vec3{X: 1, Y: 2, Z: 3}, h.Engine().Listener())
	assert.Equal(t, "channels: 2 busy, 0 idle, 3 plays, 1 stolen\n", out.String())

	ch := h.Dispatcher().Pool().Channel(1)
	assert.Equal(t, sfx.Vec3{X: 4}, ch.Settings().Position)
	assert.Equal(t, 0.5, ch.Settings().Volume)
}

func TestConsoleErrors(t *testing.T) {
	h := newConsoleHost(t)

	tests := []struct {
		line string
		want string
	}{
		{line: "play", want: "usage: play <sound> [volume]"},
		{line: "play beep loud", want: `error: invalid volume "loud"`},
		{line: "play3d beep 1 2", want: "usage: play3d <sound> <x> <y> <z> [volume]"},
		{line: "play3d beep 1 x 2", want: `error: invalid coordinate "x"`},
		{line: "listener 1", want: "usage: listener <x> <y> <z>"},
		{line: "play laser", want: "error: unknown sound: laser"},
		{line: "dance", want: `error: unknown command "dance"`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			c := newConsole(h, &out)
			assert.True(t, c.handle(tt.line))
			assert.Equal(t, tt.want, strings.TrimSpace(out.String()))
		})
	}
	assert.Equal(t, uint64(0), h.Dispatcher().Stats().Plays)
}

func TestConsolePauseAndQuit(t *testing.T) {
	h := newConsoleHost(t)
	c := newConsole(h, &bytes.Buffer{})

	assert.True(t, c.handle("pause"))
	assert.False(t, h.Engine().IsPlaying())
	assert.True(t, c.handle("resume"))
	assert.True(t, h.Engine().IsPlaying())

	assert.False(t, c.handle("quit"))
	assert.False(t, c.handle("  exit  "))
}

func TestConsoleStatsAfterPlayback(t *testing.T) {
	h := newConsoleHost(t)
	var out bytes.Buffer
	c := newConsole(h, &out)

	c.handle("play beep")
	buf := beep.NewBuffer(h.Engine().Format())
	require.NoError(t, h.Engine().Record(buf, 100*time.Millisecond))

	c.handle("stats")
	assert.Equal(t, "channels: 0 busy, 2 idle, 1 plays, 0 stolen\n", out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.True(t, strings.HasPrefix(out.String(), "sfxpool dev (unknown, built unknown)\n"))
}

// endlessInput never reaches EOF
type endlessInput struct{}

func (endlessInput) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = "play beep\n"[i%10]
	}
	return len(p), nil
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	lines := readLines(endlessInput{}, done)

	assert.Equal(t, "play beep", <-lines)
	close(done)

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("reader kept sending after done was closed")
		}
	}
}

func TestReadLinesClosesAtEOF(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	var got []string
	for line := range readLines(strings.NewReader("play beep\nstats\n"), done) {
		got = append(got, line)
	}
	assert.Equal(t, []string{"play beep", "stats"}, got)
}

type stubHost struct {
	err error
}

func (s stubHost) Stop() error {
	return s.err
}

func TestStopHost(t *testing.T) {
	stopFailed := errors.New("pool busy")
	earlier := errors.New("play failed")

	tests := []struct {
		name    string
		prior   error
		stopErr error
		want    error
	}{
		{name: "clean stop", prior: nil, stopErr: nil, want: nil},
		{name: "stop error is reported", prior: nil, stopErr: stopFailed, want: stopFailed},
		{name: "earlier error wins", prior: earlier, stopErr: stopFailed, want: earlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prior
			stopHost(stubHost{err: tt.stopErr}, &err)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
