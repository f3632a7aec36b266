package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tally/cmd/tally/ui"
	"tally/internal/export"
)

var (
	historyLimit  int
	historyExport string
)

// historyCmd lists persisted operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted operation history",
	Long: `Lists operations recorded in the history database, oldest first.

Use --limit to cap the number of rows and --export to also write the
listed history to a JSON file.`,
	RunE: showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum rows to show (0 = all)")
	historyCmd.Flags().StringVar(&historyExport, "export", "", "Write the listed history to a JSON file")
}

func showHistory(cmd *cobra.Command, args []string) error {
	env, err := openEnvironmentReadOnly()
	if err != nil {
		return err
	}
	defer env.close()

	if env.store == nil {
		cmd.Println("History persistence is disabled (see .tally/config.yaml).")
		return nil
	}

	ops, err := env.store.AllOperations(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(ops) == 0 {
		cmd.Println("No operations recorded yet.")
		return nil
	}

	styles := ui.DefaultStyles()
	table := ui.NewSimpleTable("Operation History", []string{"#", "Operation", "Result", "When"})
	for i, op := range ops {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s(%g, %g)", op.Op, op.Left, op.Right),
			formatResult(env.cfg, op.Result),
			op.At.Local().Format("2006-01-02 15:04:05"),
		)
	}
	cmd.Print(table.View(styles))

	if historyExport != "" {
		path := historyExport
		if !filepath.IsAbs(path) {
			path = filepath.Join(workspace, path)
		}
		if err := export.WriteHistory(path, ops, env.cfg.Export.Pretty); err != nil {
			return err
		}
		cmd.Printf("History exported to %s\n", path)
	}

	return nil
}
