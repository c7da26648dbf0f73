package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/whigg/sharad-tools/internal/models"
	"github.com/whigg/sharad-tools/pkg/config"
	"github.com/whigg/sharad-tools/pkg/locate"
	"github.com/whigg/sharad-tools/pkg/surfpick"
)

var (
	configPath  string
	modeName    string
	navFile     string
	outputDir   string
	inputDir    string
	imageFormat string
	stackFactor int
	force       bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "surfpow",
	Short: "Extract surface echo power from radar sounder radargrams",
	Long: `surfpow locates the surface echo in every trace of an amplitude radargram,
records its calibrated power in the observation's navigation record and saves
an annotated quick-look raster.

Surface modes:
  nadir   predict the echo from spacecraft geometry and terrain models
  fret    pick the first return from a power/derivative criterion
  max     max power return (not implemented)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run [radargram.npy]",
	Short: "Extract surface power for one radargram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}

		extractor, err := surfpick.NewExtractor(&surfpick.Params{
			RadargramFile: args[0],
			NavFile:       navFile,
			OutputDir:     outputDir,
			Config:        cfg,
			Logger:        log.New(os.Stdout, "", 0),
		})
		if err != nil {
			return err
		}

		err = extractor.Process()
		switch {
		case errors.Is(err, surfpick.ErrCompleted):
			fmt.Printf("\nSurface power extraction [%s] of observation %s already completed! Moving to next line!\n",
				cfg.Pick.Mode, extractor.Observation().ID)
			return nil
		case errors.Is(err, locate.ErrNotImplemented):
			return fmt.Errorf("mode %s: %w", cfg.Pick.Mode, err)
		case err != nil:
			return fmt.Errorf("surface power extraction failed: %w", err)
		}

		outputs := extractor.Outputs()
		fmt.Printf("Calibrated navigation record saved to: %s\n", outputs.NavFile)
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a configuration file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "surfpow.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Printf("Default configuration written to: %s\n", path)
		return nil
	},
}

// applyFlags overrides configuration values with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := models.ParseMode(modeName)
		if err != nil {
			return err
		}
		cfg.Pick.Mode = mode
	}
	if flags.Changed("input-dir") {
		cfg.Paths.InputDir = inputDir
	}
	if flags.Changed("stack") {
		cfg.Pick.StackFactor = stackFactor
	}
	if flags.Changed("format") {
		cfg.Output.ImageFormat = imageFormat
	}
	if flags.Changed("force") {
		cfg.Output.Force = force
	}
	if quiet {
		cfg.Output.Verbose = false
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "surfpow.yaml", "path to YAML configuration file")

	runCmd.Flags().StringVarP(&modeName, "mode", "m", "nadir", "surface mode (nadir, fret, max)")
	runCmd.Flags().StringVar(&navFile, "nav", "", "navigation record (default: <input-dir>/processed/data/geom/<obs>_geom.csv)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from configuration)")
	runCmd.Flags().StringVar(&inputDir, "input-dir", ".", "observation input directory")
	runCmd.Flags().StringVar(&imageFormat, "format", "png", "annotated radargram format (png, jpeg, tiff)")
	runCmd.Flags().IntVar(&stackFactor, "stack", 16, "number of traces averaged per displayed column")
	runCmd.Flags().BoolVarP(&force, "force", "f", false, "re-run even if outputs already exist")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	rootCmd.AddCommand(runCmd, initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
