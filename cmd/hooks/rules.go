package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List governance rules",
		Long:  `List the active governance rules grouped by category.`,
		RunE:  makeRulesRunner(a),
	}
}

func makeRulesRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}

		rules := session.Governance.Rules()
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rules.All())
		}

		fmt.Fprint(cmd.OutOrStdout(), rules.Status())
		return nil
	}
}
