package main

import (
	"errors"
	"fmt"

	"github.com/4thel00z/inference-hooks/internal"
	"github.com/spf13/cobra"
)

// openSession builds the hook pipeline for one invocation. Without an
// initialized state store the session runs ephemeral; governance state
// then lives only for the lifetime of the process.
func (a *app) openSession(cmd *cobra.Command) (*internal.Session, internal.Scope, error) {
	scopeHint, _ := cmd.Flags().GetString("scope")
	scope := a.resolver.Resolve(scopeHint)

	cfg, err := internal.LoadConfig(scope)
	if err != nil {
		return nil, scope, fmt.Errorf("load config: %w", err)
	}

	storeFor := func(string) (*internal.StateStore, error) {
		store, err := internal.NewStateStore(scope)
		if errors.Is(err, internal.ErrNoState) {
			return nil, nil
		}
		return store, err
	}

	notices := func(msg string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}

	registry := internal.NewRegistry(cfg.GovernanceParams(), storeFor, notices)
	session, err := registry.Get("cli")
	if err != nil {
		return nil, scope, err
	}
	return session, scope, nil
}

// openStore opens the state repository, failing when the scope has not
// been initialized.
func (a *app) openStore(cmd *cobra.Command) (*internal.StateStore, internal.Scope, error) {
	scopeHint, _ := cmd.Flags().GetString("scope")
	scope := a.resolver.Resolve(scopeHint)

	store, err := internal.NewStateStore(scope)
	if err != nil {
		return nil, scope, err
	}
	return store, scope, nil
}
