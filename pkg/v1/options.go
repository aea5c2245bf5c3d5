package v1

import "github.com/4thel00z/inference-hooks/internal"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	scope    string
	params   internal.GovernanceParams
	notices  func(string)
	storeFor func(string) (*internal.StateStore, error)
}

// WithScope forces a specific scope (global or project).
func WithScope(scope string) Option {
	return func(c *clientConfig) {
		c.scope = scope
	}
}

// WithGovernanceParams overrides the governance thresholds.
func WithGovernanceParams(params internal.GovernanceParams) Option {
	return func(c *clientConfig) {
		c.params = params
	}
}

// WithNotices sets the callback that receives streaming rule warnings.
func WithNotices(fn func(string)) Option {
	return func(c *clientConfig) {
		c.notices = fn
	}
}

// WithEphemeralState disables state persistence; sessions keep their
// governance state in memory only.
func WithEphemeralState() Option {
	return func(c *clientConfig) {
		c.storeFor = func(string) (*internal.StateStore, error) {
			return nil, nil
		}
	}
}

// WithInMemoryState backs every session with a fresh in-memory state
// repository, mainly for tests.
func WithInMemoryState() Option {
	return func(c *clientConfig) {
		c.storeFor = func(string) (*internal.StateStore, error) {
			return internal.NewMemoryStateStore()
		}
	}
}
