package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPromptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt injection",
		Long:  `Print the combined injection prompt of all active hooks, for embedding into a system prompt.`,
		RunE:  makePromptRunner(a),
	}
}

func makePromptRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}

		session.Hook.OnCycleStart()
		fmt.Fprint(cmd.OutOrStdout(), session.Hook.InjectionPrompt())
		return nil
	}
}
