package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tally/internal/export"
	"tally/internal/logging"
)

// runCmd performs the fixed demonstration sequence: a couple of
// calculations, the history dump, data processing, and the results file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo calculation sequence and write results",
	Long: `Runs a fixed sequence of operations:

  1. Loads the workspace configuration
  2. Performs add(10, 5) and multiply(3, 4)
  3. Prints the results and the operation history
  4. Processes a small sample data set (positive values only)
  5. Writes the processed results to the configured JSON file`,
	RunE: runSequence,
}

func runSequence(cmd *cobra.Command, args []string) error {
	cmd.Println("Starting Calculator Application...")

	env, err := openEnvironment("run")
	if err != nil {
		return err
	}
	defer env.close()

	result1, err := env.calc.Add(10, 5)
	if err != nil {
		return err
	}
	result2, err := env.calc.Multiply(3, 4)
	if err != nil {
		return err
	}

	cmd.Printf("Results: %s, %s\n",
		formatResult(env.cfg, result1), formatResult(env.cfg, result2))

	for _, entry := range env.calc.History() {
		cmd.Printf("History: %s\n", entry)
	}

	sample := []export.Item{
		{ID: 1, Value: 10},
		{ID: 2, Value: -5},
		{ID: 3, Value: 20},
	}
	processed := export.Process(sample)
	logging.Export("processed %d/%d items", len(processed), len(sample))

	resultsPath := env.cfg.Export.ResultsPath
	if !filepath.IsAbs(resultsPath) {
		resultsPath = filepath.Join(workspace, resultsPath)
	}
	if err := export.WriteResults(resultsPath, processed, env.cfg.Export.Pretty); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	logger.Info("results written", zap.String("path", resultsPath), zap.Int("count", len(processed)))

	cmd.Println("Application completed successfully!")
	return nil
}
