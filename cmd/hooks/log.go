package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

func NewLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show governance events",
		Long:  `Show the governance event log, or the state commit history with --commits.`,
		RunE:  makeLogRunner(a),
	}

	cmd.Flags().IntP("number", "n", 10, "Limit number of entries")
	cmd.Flags().Bool("commits", false, "Show state commits instead of events")
	return cmd
}

func makeLogRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("number")
		showCommits, _ := cmd.Flags().GetBool("commits")
		asJSON, _ := cmd.Flags().GetBool("json")

		store, _, err := a.openStore(cmd)
		if err != nil {
			return err
		}

		if showCommits {
			commits, err := store.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("get history: %w", err)
			}
			return outputCommits(cmd, commits, asJSON)
		}

		events, err := store.Events(limit)
		if err != nil {
			return fmt.Errorf("get events: %w", err)
		}
		return outputEvents(cmd, events, asJSON)
	}
}

func outputCommits(cmd *cobra.Command, commits []*internal.StateCommit, asJSON bool) error {
	if asJSON {
		out := make([]map[string]any, 0, len(commits))
		for _, c := range commits {
			out = append(out, map[string]any{
				"hash":      c.Hash,
				"message":   c.Message,
				"timestamp": c.Timestamp,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, c := range commits {
		fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", c.Hash)
		fmt.Fprintf(cmd.OutOrStdout(), "Date:   %s\n\n", c.Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n\n", c.Message)
	}
	return nil
}

func outputEvents(cmd *cobra.Command, events []internal.Event, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	for _, ev := range events {
		when := time.Unix(0, ev.Timestamp).Format("2006-01-02 15:04:05")
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] cycle %d %s (%s, drift %.2f)\n    %s\n",
			when, ev.Cycle, ev.Type, ev.Severity, ev.DriftScore, ev.Description)
	}
	return nil
}
