// Command fairbench runs a Balanced Error Rate disparity audit over a CSV
// of classifier predictions and prints the BER ratio with a bias verdict.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fairbench/fairbench"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// Exit codes. A missing input file gets its own code so callers can tell
// "no data" apart from a bad configuration.
const (
	exitFailure       = 1
	exitInputNotFound = 2
)

var (
	flagConfig         string
	flagInputFile      string
	flagSplitField     string
	flagDemoAttributes string
	flagSampleCount    int
	flagRandomSeed     int
)

var rootCmd = &cobra.Command{
	Use:   "fairbench",
	Short: "Balanced Error Rate disparity audit for binary classifiers",
	Long: `fairbench compares the Balanced Error Rate (BER) of two demographic
cohorts in a classifier's predictions, using repeated balanced resampling
to control for class-size imbalance.

The input CSV must carry a header with "labels" and "prediction" columns
plus the column named by --split-field. The privileged cohort goes first
in --demo-attributes, and the random seed must exceed 10 + sample count.`,
	Example: `  fairbench --input-file in_race.csv --split-field race_source_value \
      --demo-attributes "White,Black or African American" \
      --sample-count 3 --random-seed 10678

  fairbench --config audit.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAudit,
}

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	rootCmd.Flags().StringVar(&flagConfig, "config", "",
		"YAML audit scenario file; explicit flags override its values")
	rootCmd.Flags().StringVar(&flagInputFile, "input-file", "",
		"path to the input CSV file")
	rootCmd.Flags().StringVar(&flagSplitField, "split-field", "",
		"column identifying group membership (e.g. race_source_value)")
	rootCmd.Flags().StringVar(&flagDemoAttributes, "demo-attributes", "",
		"two comma-separated group values, privileged first")
	rootCmd.Flags().IntVar(&flagSampleCount, "sample-count", 1,
		"number of balanced resamples to draw")
	rootCmd.Flags().IntVar(&flagRandomSeed, "random-seed", 0,
		"reproducibility seed; must exceed 10 + sample count")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	scenario := &fairbench.Scenario{}
	if flagConfig != "" {
		loaded, err := fairbench.LoadScenario(flagConfig)
		if err != nil {
			return err
		}
		scenario = loaded
	}

	// Flags the user set explicitly win over the scenario file.
	if cmd.Flags().Changed("input-file") || scenario.InputFile == "" {
		scenario.InputFile = flagInputFile
	}
	if cmd.Flags().Changed("split-field") || scenario.SplitField == "" {
		scenario.SplitField = flagSplitField
	}
	if cmd.Flags().Changed("demo-attributes") || len(scenario.DemoAttributes) == 0 {
		scenario.DemoAttributes = splitAttributes(flagDemoAttributes)
	}
	if cmd.Flags().Changed("sample-count") || scenario.SampleCount == 0 {
		scenario.SampleCount = flagSampleCount
	}
	if cmd.Flags().Changed("random-seed") || scenario.RandomSeed == 0 {
		scenario.RandomSeed = flagRandomSeed
	}

	ratio, verdict, err := scenario.Run()
	if err != nil {
		return err
	}

	fmt.Printf("BER Ratio: %g\n", ratio)
	fmt.Println(verdict.Describe(scenario.DemoAttributes[0], scenario.DemoAttributes[1]))
	return nil
}

// splitAttributes parses the comma-separated --demo-attributes value.
// Surrounding whitespace is trimmed so quoted lists read naturally.
func splitAttributes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		if errors.Is(err, fairbench.ErrInputNotFound) {
			os.Exit(exitInputNotFound)
		}
		os.Exit(exitFailure)
	}
}
