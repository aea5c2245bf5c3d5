package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show governance status",
		Long:  `Run a governance check and print the status report.`,
		RunE:  makeStatusRunner(a),
	}
}

func makeStatusRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}

		session.Hook.OnCycleStart()
		report := session.Governance.ExecuteCommand(json.RawMessage(`{"hook_command":"governance_check"}`))
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	}
}
