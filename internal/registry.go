package internal

import (
	"fmt"
	"sort"
	"sync"
)

// Session bundles the hooks and router serving one conversation.
type Session struct {
	ID         string
	Memory     *MemoryStore
	Governance *GovernanceHook
	Hook       Hook
	Router     *Router
}

// Registry tracks active sessions by id and builds them on first use.
// storeFor supplies the state store per session and may return a nil
// store for ephemeral operation.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	storeFor func(id string) (*StateStore, error)
	params   GovernanceParams
	notices  func(string)
}

func NewRegistry(params GovernanceParams, storeFor func(string) (*StateStore, error), notices func(string)) *Registry {
	if storeFor == nil {
		storeFor = func(string) (*StateStore, error) { return nil, nil }
	}
	return &Registry{
		sessions: make(map[string]*Session),
		storeFor: storeFor,
		params:   params,
		notices:  notices,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[id]; ok {
		return session, nil
	}

	store, err := r.storeFor(id)
	if err != nil {
		return nil, fmt.Errorf("state store for session %s: %w", id, err)
	}

	memory := NewMemoryStore()
	governance := NewGovernanceHook(store, r.params)
	hook := NewComposite(memory, governance)

	session := &Session{
		ID:         id,
		Memory:     memory,
		Governance: governance,
		Hook:       hook,
		Router:     NewRouter(hook, r.notices),
	}
	r.sessions[id] = session
	debugf("registry", "session %s created", id)
	return session, nil
}

// Remove drops a session. The next Get with the same id builds a fresh
// one.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// IDs lists active session ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
