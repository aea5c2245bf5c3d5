package main

import (
	"fmt"
	"sort"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

func NewProviderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage LLM providers",
		Long:  `List, add, remove, and set the default LLM provider.`,
	}

	cmd.AddCommand(
		newProviderListCmd(a),
		newProviderAddCmd(a),
		newProviderRemoveCmd(a),
		newProviderDefaultCmd(a),
	)

	return cmd
}

func (a *app) loadScopedConfig(cmd *cobra.Command) (*internal.Config, internal.Scope, error) {
	scopeHint, _ := cmd.Flags().GetString("scope")
	scope := a.resolver.Resolve(scopeHint)

	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, scope, fmt.Errorf("load config: %w", err)
	}
	return cfg, scope, nil
}

func newProviderListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.loadScopedConfig(cmd)
			if err != nil {
				return err
			}

			if len(cfg.Providers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured.")
				return nil
			}

			names := make([]string, 0, len(cfg.Providers))
			for name := range cfg.Providers {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				marker := ""
				if name == cfg.DefaultProvider {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
			}
			return nil
		},
	}
}

func newProviderAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			apiKey, _ := cmd.Flags().GetString("api-key")
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")

			cfg, scope, err := a.loadScopedConfig(cmd)
			if err != nil {
				return err
			}

			cfg.Providers[name] = internal.ProviderConfig{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   model,
			}
			if cfg.DefaultProvider == "" {
				cfg.DefaultProvider = name
			}

			if err := internal.SaveConfig(scope, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added provider %s\n", name)
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "API key")
	cmd.Flags().String("base-url", "", "Base URL")
	cmd.Flags().String("model", "", "Model name")
	return cmd
}

func newProviderRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, scope, err := a.loadScopedConfig(cmd)
			if err != nil {
				return err
			}

			if _, ok := cfg.Providers[name]; !ok {
				return fmt.Errorf("unknown provider: %s", name)
			}

			delete(cfg.Providers, name)
			if cfg.DefaultProvider == name {
				cfg.DefaultProvider = ""
			}

			if err := internal.SaveConfig(scope, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %s\n", name)
			return nil
		},
	}
}

func newProviderDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Set default provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, scope, err := a.loadScopedConfig(cmd)
			if err != nil {
				return err
			}

			if _, ok := cfg.Providers[name]; !ok {
				return fmt.Errorf("unknown provider: %s", name)
			}

			cfg.DefaultProvider = name
			if err := internal.SaveConfig(scope, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default provider set to %s\n", name)
			return nil
		},
	}
}
