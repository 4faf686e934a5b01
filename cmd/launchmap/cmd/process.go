package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/launchmap"
	"github.com/agentstation/launchmap/pkg/logging"
)

var (
	processOutput    string
	processOutFile   string
	processTolerance int
	processNoDetect  bool
	processNoDedupe  bool
)

// processCmd runs the full reconciliation pipeline over an input file.
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Reconcile scraped launch records into a clean dataset",
	Long: `Process runs the full pipeline over an input file: validation,
conflict detection, source reconciliation, and deduplication.

The input file holds a list of source batches, each pairing a source
descriptor with the raw records scraped from it:

  - source:
      name: spacex.com
      url: https://www.spacex.com/launches
      quality_score: 0.95
    records:
      - slug: starship-flight-7
        mission_name: Starship Flight 7
        status: upcoming

Examples:
  launchmap process scraped.yaml
  launchmap process scraped.json --output yaml --out clean.yaml
  launchmap process scraped.yaml --date-tolerance 1 --no-dedupe`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "json", "output format (json, yaml)")
	processCmd.Flags().StringVar(&processOutFile, "out", "", "write output to file instead of stdout")
	processCmd.Flags().IntVar(&processTolerance, "date-tolerance", 24, "date tolerance in hours for deduplication")
	processCmd.Flags().BoolVar(&processNoDetect, "no-conflict-detection", false, "skip the conflict detection stage")
	processCmd.Flags().BoolVar(&processNoDedupe, "no-dedupe", false, "skip the deduplication stage")

	if err := viper.BindPFlag("date_tolerance_hours", processCmd.Flags().Lookup("date-tolerance")); err != nil {
		panic(fmt.Sprintf("Failed to bind date-tolerance flag: %v", err))
	}
}

func runProcess(_ *cobra.Command, args []string) error {
	inputs, err := loadInputs(args[0])
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no records found in %s", args[0])
	}

	lm, err := launchmap.New(
		launchmap.WithDateToleranceHours(viper.GetInt("date_tolerance_hours")),
		launchmap.WithConflictDetection(!processNoDetect),
		launchmap.WithDeduplication(!processNoDedupe),
	)
	if err != nil {
		return err
	}

	result := lm.Process(inputs)

	if err := writeOutput(result, processOutput, processOutFile); err != nil {
		return err
	}

	if len(result.ValidationErrors) > 0 {
		logging.Warn().
			Int("errors", len(result.ValidationErrors)).
			Msg("Some records were rejected during validation")
	}
	return nil
}
