package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sfxpool/config"
	"sfxpool/host"
	"sfxpool/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sfxpool",
	Short: "A fire-and-forget sound effect player",
	Long: `Sfxpool plays short sound effects on a fixed pool of playback channels.

Every request grabs the first idle channel, configures its position, volume,
pitch and spatial blend, and starts it without waiting. When every channel is
busy the first channel is cut off and reused, so a sound always plays.

Without a subcommand sfxpool reads commands from standard input:

  play <sound> [volume]
  play3d <sound> <x> <y> <z> [volume]
  listener <x> <y> <z>
  pause | resume | stats | quit`,
	RunE: runConsole,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentFlags().IntP("sources", "n", 32, "number of playback channels")
	rootCmd.PersistentFlags().String("route", "sfx", "output route for every channel")
	rootCmd.PersistentFlags().StringP("assets", "a", "assets/audio", "audio asset directory")
	rootCmd.PersistentFlags().Int("sample-rate", 48000, "output sample rate")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	viper.BindPFlag("pool.source_amount", rootCmd.PersistentFlags().Lookup("sources"))
	viper.BindPFlag("pool.route", rootCmd.PersistentFlags().Lookup("route"))
	viper.BindPFlag("assets.dir", rootCmd.PersistentFlags().Lookup("assets"))
	viper.BindPFlag("audio.sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// setup loads and validates configuration and configures logging
func setup() (*config.Config, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Setup logging
	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, nil
}

// runConsole dispatches commands read from stdin until EOF, quit or a signal
func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	// Create and initialize the host
	h := host.New(cfg)
	if err := h.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize host: %w", err)
	}

	// Start the host
	if err := h.Start(); err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}

	done := make(chan struct{})
	defer close(done)

	lines := readLines(cmd.InOrStdin(), done)

	// Setup graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	c := newConsole(h, cmd.OutOrStdout())
loop:
	for {
		// Wait for shutdown signal, input or EOF
		select {
		case sig := <-signalChan:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down gracefully...\n", sig)
			break loop
		case line, ok := <-lines:
			if !ok || !c.handle(line) {
				break loop
			}
		}
	}

	// Graceful shutdown
	if err := h.Stop(); err != nil {
		return fmt.Errorf("failed to stop host gracefully: %w", err)
	}

	return nil
}

// readLines scans r on its own goroutine. The channel closes at EOF or once
// done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

type stopper interface {
	Stop() error
}

// stopHost stops h, reporting its error through err unless err is already set
func stopHost(h stopper, err *error) {
	if stopErr := h.Stop(); stopErr != nil && *err == nil {
		*err = fmt.Errorf("failed to stop host gracefully: %w", stopErr)
	}
}
