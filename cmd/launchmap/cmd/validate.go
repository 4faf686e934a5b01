package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/launchmap"
)

// validateCmd checks an input file without reconciling it.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate scraped launch records without processing them",
	Long: `Validate checks every record in an input file against the launch
schema and reports rejections and warnings without running the rest
of the pipeline.

Exits non-zero when any record is rejected.

Examples:
  launchmap validate scraped.yaml
  launchmap validate scraped.json -q`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	inputs, err := loadInputs(args[0])
	if err != nil {
		return err
	}

	lm, err := launchmap.New()
	if err != nil {
		return err
	}

	valid := 0
	var rejections []string
	for _, input := range inputs {
		if _, err := lm.Validate(input.Record, input.Source); err != nil {
			rejections = append(rejections, err.Error())
			continue
		}
		valid++
	}

	fmt.Fprintf(os.Stdout, "%d/%d records valid\n", valid, len(inputs))
	for _, r := range rejections {
		fmt.Fprintf(os.Stdout, "  rejected: %s\n", r)
	}

	if len(rejections) > 0 {
		return fmt.Errorf("%d of %d records failed validation", len(rejections), len(inputs))
	}
	return nil
}
