package v1

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/4thel00z/inference-hooks/internal"
)

// Client provides programmatic access to the hook pipeline.
type Client struct {
	registry *internal.Registry
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		params: internal.DefaultGovernanceParams(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	storeFor := cfg.storeFor
	if storeFor == nil {
		storeFor = defaultStoreFor(cfg.scope)
	}

	registry := internal.NewRegistry(cfg.params, storeFor, cfg.notices)
	return &Client{registry: registry}, nil
}

func defaultStoreFor(scopeHint string) func(string) (*internal.StateStore, error) {
	resolver := internal.NewScopeResolver()
	return func(string) (*internal.StateStore, error) {
		store, err := internal.NewStateStore(resolver.Resolve(scopeHint))
		if errors.Is(err, internal.ErrNoState) {
			return nil, nil
		}
		return store, err
	}
}

// Session returns the handle for a conversation, creating it on first
// use.
func (c *Client) Session(id string) (*Session, error) {
	session, err := c.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{session: session}, nil
}

// Sessions lists active session ids.
func (c *Client) Sessions() []string {
	return c.registry.IDs()
}

// CloseSession drops a session; a later Session call with the same id
// starts fresh.
func (c *Client) CloseSession(id string) {
	c.registry.Remove(id)
}

// Session is the hook pipeline for one conversation.
type Session struct {
	session *internal.Session
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.session.ID
}

// CycleStart begins a new interaction cycle.
func (s *Session) CycleStart() {
	s.session.Hook.OnCycleStart()
}

// InjectionPrompt returns the text to embed into the system prompt.
func (s *Session) InjectionPrompt() string {
	return s.session.Hook.InjectionPrompt()
}

// ProcessChunk feeds one streaming chunk payload through the router and
// returns the frames to emit.
func (s *Session) ProcessChunk(data string) string {
	return s.session.Router.ProcessChunk(data)
}

// Finish ends the current stream and returns the closing frames,
// including any command responses and the terminator.
func (s *Session) Finish() string {
	return s.session.Router.Finish()
}

// ProcessBatch runs a complete response body through the pipeline and
// returns the edited body.
func (s *Session) ProcessBatch(body []byte) ([]byte, error) {
	return s.session.Router.ProcessBatch(body)
}

// HandleText extracts and answers embedded commands in a response text.
func (s *Session) HandleText(output string) string {
	return s.session.Hook.HandleTextCommand(output)
}

// Finalize applies finalize rules; the returned text replaces the
// response when it differs.
func (s *Session) Finalize(text string) string {
	return s.session.Hook.Finalize(text)
}

// Memory exposes the session's key-value memory.
func (s *Session) Memory() *Memory {
	return &Memory{store: s.session.Memory}
}

// Governance exposes the session's governance engine.
func (s *Session) Governance() *Governance {
	return &Governance{hook: s.session.Governance}
}

// Memory is the key-value store backing a session's memory hook.
type Memory struct {
	store *internal.MemoryStore
}

func (m *Memory) Set(key, value string) { m.store.Set(key, value) }
func (m *Memory) Get(key string) string { return m.store.Get(key) }
func (m *Memory) Del(key string)        { m.store.Del(key) }
func (m *Memory) Has(key string) bool   { return m.store.Has(key) }
func (m *Memory) Keys() []string        { return m.store.Keys() }
func (m *Memory) Count() int            { return m.store.Count() }
func (m *Memory) UsageBytes() int       { return m.store.UsageBytes() }
func (m *Memory) QuotaBytes() int       { return m.store.QuotaBytes() }

// Governance is the rule engine of a session.
type Governance struct {
	hook *internal.GovernanceHook
}

// Cycle returns the current cycle count.
func (g *Governance) Cycle() int {
	return g.hook.Cycle()
}

// Drift returns the current drift score.
func (g *Governance) Drift() float64 {
	return g.hook.Drift()
}

// Rules lists the active governance rules.
func (g *Governance) Rules() []Rule {
	all := g.hook.Rules().All()
	rules := make([]Rule, 0, len(all))
	for _, r := range all {
		rules = append(rules, Rule{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Category:    r.Category,
		})
	}
	return rules
}

// Command runs a governance command by name and returns its report.
func (g *Governance) Command(name, params string) (string, error) {
	raw, err := json.Marshal(map[string]string{
		"hook_command": name,
		"params":       params,
	})
	if err != nil {
		return "", fmt.Errorf("marshal command: %w", err)
	}
	return g.hook.ExecuteCommand(raw), nil
}
