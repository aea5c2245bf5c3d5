package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRevertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <ref>",
		Short: "Revert governance state to a commit",
		Long:  `Hard-reset the state repository to the given commit-ish.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeRevertRunner(a),
	}
}

func makeRevertRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, _, err := a.openStore(cmd)
		if err != nil {
			return err
		}

		if err := store.Revert(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("revert state: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "State reverted to %s\n", args[0])
		return nil
	}
}
