package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"sfxpool/host"
	"sfxpool/playback"
	"sfxpool/sfx"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"
)

// maxTail bounds how long play waits for the last sounds to finish
const maxTail = 10 * time.Second

var playCmd = &cobra.Command{
	Use:   "play <sound>",
	Short: "Play a sound one or more times",
	Long: `Play a configured sound, optionally repeated at a fixed interval.

Repeating faster than the sound length with a small --sources value shows
voice stealing: the first channel is cut off and reused. With --out the
mix is rendered to a WAV file instead of the audio device.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Int("repeat", 1, "how many times to play the sound")
	playCmd.Flags().Duration("interval", 100*time.Millisecond, "time between repeats")
	playCmd.Flags().Float64Slice("at", nil, "play positioned at x,y,z")
	playCmd.Flags().Float64("volume", 1, "playback volume")
	playCmd.Flags().StringP("out", "o", "", "render to this WAV file instead of the speaker")
}

func runPlay(cmd *cobra.Command, args []string) (err error) {
	cfg, err := setup()
	if err != nil {
		return err
	}

	repeat, _ := cmd.Flags().GetInt("repeat")
	interval, _ := cmd.Flags().GetDuration("interval")
	at, _ := cmd.Flags().GetFloat64Slice("at")
	volume, _ := cmd.Flags().GetFloat64("volume")
	out, _ := cmd.Flags().GetString("out")

	if at != nil && len(at) != 3 {
		return fmt.Errorf("--at needs exactly three coordinates, got %d", len(at))
	}

	h := host.New(cfg, host.WithSpeaker(out == ""))
	if err := h.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize host: %w", err)
	}
	defer stopHost(h, &err)

	var rec *beep.Buffer
	if out != "" {
		rec = beep.NewBuffer(h.Engine().Format())
	}
	advance := func(d time.Duration) error {
		if rec == nil {
			time.Sleep(d)
			return nil
		}
		return h.Engine().Record(rec, d)
	}

	name := args[0]
	for i := 0; i < repeat; i++ {
		if at != nil {
			err = h.PlayAt(name, sfx.Vec3{X: at[0], Y: at[1], Z: at[2]}, sfx.WithVolume(volume))
		} else {
			err = h.Play(name, sfx.WithVolume(volume))
		}
		if err != nil {
			return err
		}
		if i < repeat-1 {
			if err := advance(interval); err != nil {
				return err
			}
		}
	}

	// Wait for playback to complete
	const step = 20 * time.Millisecond
	for waited := time.Duration(0); h.Engine().Active() > 0 && waited < maxTail; waited += step {
		if err := advance(step); err != nil {
			return err
		}
	}

	stats := h.Dispatcher().Stats()
	slog.Info("Playback finished",
		slog.String("sound", name),
		slog.Uint64("plays", stats.Plays),
		slog.Uint64("stolen", stats.Steals))

	if rec == nil {
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()
	if err := playback.WriteWAV(f, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, rec.Format().SampleRate.D(rec.Len()).Round(time.Millisecond))
	return nil
}
