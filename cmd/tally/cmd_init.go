package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
)

// initCmd initializes tally in the current workspace.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tally in the current workspace",
	Long: `Creates the .tally/ directory and writes the default configuration.

Run this once per workspace. Existing configuration is left untouched
unless --force is given.`,
	RunE: runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath(workspace)

	if _, err := os.Stat(path); err == nil && !initForce {
		cmd.Printf("Config already exists at %s (use --force to overwrite)\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cmd.Printf("Initialized tally workspace: %s\n", path)
	return nil
}

// statusCmd shows the effective configuration and history stats.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tally configuration and history status",
	RunE:  showStatus,
}

func showStatus(cmd *cobra.Command, args []string) error {
	env, err := openEnvironmentReadOnly()
	if err != nil {
		return err
	}
	defer env.close()

	cmd.Printf("%s %s\n", env.cfg.Name, env.cfg.Version)
	cmd.Printf("Workspace:      %s\n", workspace)
	cmd.Printf("Output format:  %s (precision %d)\n", env.cfg.Output.Format, env.cfg.Output.Precision)
	cmd.Printf("Results file:   %s\n", env.cfg.Export.ResultsPath)

	if env.store == nil {
		cmd.Println("History:        disabled")
		return nil
	}

	count, err := env.store.CountOperations()
	if err != nil {
		return fmt.Errorf("failed to read history stats: %w", err)
	}
	sessions, err := env.store.Sessions()
	if err != nil {
		return fmt.Errorf("failed to read sessions: %w", err)
	}

	cmd.Printf("History:        %s\n", env.store.Path())
	cmd.Printf("Operations:     %d across %d sessions\n", count, len(sessions))
	return nil
}
