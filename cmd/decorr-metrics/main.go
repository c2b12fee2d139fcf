package main

import (
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/photomet/decorr-metrics/internal/config"
	"github.com/photomet/decorr-metrics/internal/pipeline"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var (
		cfgPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:   "decorr-metrics",
		Short: "Measure sub-pixel stage displacement and sharpness across a calibration grid",
		Long: `decorr-metrics walks a gain/movement/exposure grid of captured frames,
locates a fixed reference template in every frame via normalized
cross-correlation, converts the pixel shift into millimeters through the
stage calibration matrix, scores each frame's sharpness (MIG), and writes
one Results.csv per experiment leaf.`,
		Example: `  decorr-metrics --input ./laser_decorrelation_images --output ./laser_decorrelation_results
  decorr-metrics --config rig.toml --workers 4`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logLevel)

			// File settings sit between compiled-in defaults and flags, so
			// re-apply any explicitly set flags after loading the file.
			if cfgPath != "" {
				if err := cfg.LoadFile(cfgPath); err != nil {
					log.Error().Err(err).Msg("configuration error")
					return err
				}
				applyFlagOverrides(cmd, &cfg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := pipeline.Run(ctx, cfg, log); err != nil {
				log.Error().Err(err).Msg("run failed")
				return err
			}
			return nil
		},
	}

	root.Flags().StringVarP(&cfg.InputRoot, "input", "i", cfg.InputRoot,
		"root of the gain/movement/exposure experiment grid")
	root.Flags().StringVarP(&cfg.OutputRoot, "output", "o", cfg.OutputRoot,
		"root of the mirrored results tree")
	root.Flags().IntVarP(&cfg.Workers, "workers", "j", cfg.Workers,
		"number of experiment units processed concurrently")
	root.Flags().BoolVar(&cfg.CalibrationMode, "calibration-mode", cfg.CalibrationMode,
		"leave the Dist. X/Y columns blank while establishing the calibration matrix")
	root.Flags().StringVar(&cfgPath, "config", "",
		"optional TOML file overriding the compiled-in rig configuration")
	root.Flags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, or error")

	return root
}

// applyFlagOverrides re-applies flags the user set explicitly, so they win
// over values read from the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("input") {
		cfg.InputRoot, _ = cmd.Flags().GetString("input")
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputRoot, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("calibration-mode") {
		cfg.CalibrationMode, _ = cmd.Flags().GetBool("calibration-mode")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", level)
	}
	return log
}
