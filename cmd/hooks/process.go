package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

func NewProcessCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run a model response through the hook pipeline",
		Long: `Read a model response from stdin, extract and answer embedded commands,
and apply governance checks. Batch input is a single JSON body; with
--stream the input is server-sent events and the edited stream is
re-emitted.`,
		RunE: makeProcessRunner(a),
	}

	cmd.Flags().Bool("stream", false, "Treat input as an SSE stream")
	return cmd
}

func makeProcessRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		stream, _ := cmd.Flags().GetBool("stream")

		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}
		session.Hook.OnCycleStart()

		if stream {
			return processStream(cmd, session)
		}
		return processBatch(cmd, session)
	}
}

func processStream(cmd *cobra.Command, session *internal.Session) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	finished := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			fmt.Fprint(cmd.OutOrStdout(), session.Router.Finish())
			finished = true
			break
		}
		fmt.Fprint(cmd.OutOrStdout(), session.Router.ProcessChunk(payload))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}

	// A stream that ends without a terminator still gets finalized.
	if !finished {
		fmt.Fprint(cmd.OutOrStdout(), session.Router.Finish())
	}
	return nil
}

func processBatch(cmd *cobra.Command, session *internal.Session) error {
	body, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	edited, err := session.Router.ProcessBatch(body)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(edited))
	return nil
}
