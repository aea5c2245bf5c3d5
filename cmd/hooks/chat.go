package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

func NewChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Chat with a model through the hook pipeline",
		Long: `Send a prompt to the configured LLM provider. The hook injection prompt
is prepended, the streamed response is checked as it arrives, and any
embedded commands are answered after the response completes.`,
		RunE: makeChatRunner(a),
	}

	cmd.Flags().String("provider", "", "Provider name (defaults to the configured default)")
	return cmd
}

func makeChatRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		providerName, _ := cmd.Flags().GetString("provider")
		scopeHint, _ := cmd.Flags().GetString("scope")
		scope := a.resolver.Resolve(scopeHint)

		cfg, err := internal.LoadConfig(scope)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		prompt := strings.Join(args, " ")
		if prompt == "" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read prompt: %w", err)
			}
			prompt = strings.TrimSpace(string(data))
		}
		if prompt == "" {
			return fmt.Errorf("empty prompt")
		}

		provider, err := resolveProvider(cmd, cfg, providerName)
		if err != nil {
			return err
		}

		session, _, err := a.openSession(cmd)
		if err != nil {
			return err
		}
		session.Hook.OnCycleStart()

		full := session.Hook.InjectionPrompt() + "\n" + prompt

		ch, err := provider.Stream(cmd.Context(), full)
		if err != nil {
			return fmt.Errorf("stream: %w", err)
		}

		var response strings.Builder
		for delta := range ch {
			fmt.Fprint(cmd.OutOrStdout(), delta)
			response.WriteString(delta)

			if warning := session.Hook.CheckStreaming(response.String()); warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nwarning: %s\n", warning)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())

		text := response.String()
		if finalized := session.Hook.Finalize(text); finalized != text {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", finalized)
		}

		if resp := session.Hook.HandleTextCommand(text); resp != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", resp)
		}
		return nil
	}
}

func resolveProvider(cmd *cobra.Command, cfg *internal.Config, name string) (internal.Provider, error) {
	if name == "" {
		name = cfg.DefaultProvider
	}
	if name == "" {
		return nil, fmt.Errorf("no provider configured; run 'hooks provider add' first")
	}

	pc, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return internal.NewFantasyProvider(cmd.Context(), internal.FantasyConfig{
		Provider: name,
		APIKey:   pc.APIKey,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	})
}
