package cmd

import (
	"fmt"
	"log/slog"

	"sfxpool/config"
	"sfxpool/logger"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for managing and validating sfxpool configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup basic logging for validation
		if err := logger.Setup("info", "text"); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		// Load configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// Validate configuration
		if err := cfg.Validate(); err != nil {
			slog.Error("Configuration validation failed", slog.Any("error", err))
			return err
		}

		slog.Info("Configuration is valid")
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup basic logging
		if err := logger.Setup("info", "text"); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		// Load configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		printConfig(cmd, cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintf(out, "  Pool:\n")
	fmt.Fprintf(out, "    Sources: %d\n", cfg.Pool.SourceAmount)
	fmt.Fprintf(out, "    Route: %s\n", cfg.Pool.Route)
	fmt.Fprintf(out, "  Audio:\n")
	fmt.Fprintf(out, "    Sample rate: %d\n", cfg.Audio.SampleRate)
	fmt.Fprintf(out, "    Buffer: %s\n", cfg.Audio.Buffer)
	fmt.Fprintf(out, "    Quality: %d\n", cfg.Audio.Quality)
	fmt.Fprintf(out, "    Master volume: %.2f\n", cfg.Audio.MasterVolume)
	fmt.Fprintf(out, "  Buses:\n")
	for route, gain := range cfg.Output.Buses {
		fmt.Fprintf(out, "    %s: %.2f\n", route, gain)
	}
	fmt.Fprintf(out, "  Spatial:\n")
	fmt.Fprintf(out, "    Reference distance: %.2f\n", cfg.Spatial.RefDistance)
	fmt.Fprintf(out, "    Rolloff: %.2f\n", cfg.Spatial.Rolloff)
	fmt.Fprintf(out, "    Max distance: %.2f\n", cfg.Spatial.MaxDistance)
	fmt.Fprintf(out, "  Assets:\n")
	fmt.Fprintf(out, "    Dir: %s\n", cfg.Assets.Dir)
	fmt.Fprintf(out, "  Sounds:\n")
	for _, name := range cfg.SoundNames() {
		s := cfg.Sounds[name]
		min, max := s.Pitch()
		fmt.Fprintf(out, "    %s: %d files, pitch %.2f-%.2f\n", name, len(s.Files), min, max)
	}
	fmt.Fprintf(out, "  Logging:\n")
	fmt.Fprintf(out, "    Level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "    Format: %s\n", cfg.Logging.Format)
}
