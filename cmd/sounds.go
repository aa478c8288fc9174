package cmd

import (
	"fmt"
	"time"

	"sfxpool/host"

	"github.com/spf13/cobra"
)

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List playable sounds",
	Long:  "Decode the asset directory and list every sound bank with its variants.",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := setup()
		if err != nil {
			return err
		}

		h := host.New(cfg, host.WithSpeaker(false))
		if err := h.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize host: %w", err)
		}
		defer stopHost(h, &err)

		out := cmd.OutOrStdout()
		for _, name := range h.Library().Names() {
			bank, _ := h.Library().Sound(name)
			fmt.Fprintf(out, "%s\n", name)
			for _, clip := range bank.Clips() {
				length := clip.Buffer.Format().SampleRate.D(clip.Buffer.Len())
				fmt.Fprintf(out, "  %-24s %s\n", clip.Name, length.Round(time.Millisecond))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(soundsCmd)
}
