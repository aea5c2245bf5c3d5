package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Perform self-verification",
		Long:  `Verify rule and memory kernel integrity and repair what can be repaired.`,
		RunE:  makeVerifyRunner(a),
	}
}

func makeVerifyRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}

		session.Hook.OnCycleStart()
		report := session.Governance.ExecuteCommand(json.RawMessage(`{"hook_command":"perform_self_verification"}`))
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	}
}
