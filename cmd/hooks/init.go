package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new hooks store",
		Long:  `Initialize a new .hooks directory with git-backed governance state.`,
		RunE:  runInit,
	}

	cmd.Flags().Bool("global", false, "Initialize global scope (~/.hooks)")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	isGlobal, _ := cmd.Flags().GetBool("global")

	resolver := internal.NewScopeResolver()

	var scope internal.Scope
	if isGlobal {
		scope = resolver.Global()
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		scope = internal.Scope{
			Type:      internal.ScopeProject,
			Path:      cwd,
			HooksPath: filepath.Join(cwd, ".hooks"),
		}
	}

	if _, err := os.Stat(scope.HooksPath); err == nil {
		return fmt.Errorf("already initialized at %s", scope.HooksPath)
	}

	if err := internal.InitRepository(scope); err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	cfg := internal.DefaultConfig()
	if err := internal.SaveConfig(scope, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized hooks store at %s\n", scope.HooksPath)
	return nil
}
