package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	DefaultBranch = "main"
	DefaultAuthor = "hooks"
	DefaultEmail  = "hooks@local"

	stateFile  = "state.json"
	eventsFile = "events.jsonl"
	initFile   = ".hooks-init"
)

// Snapshot is the governance state persisted between sessions.
type Snapshot struct {
	Timestamp             int64          `json:"timestamp"`
	Cycle                 int            `json:"cycle"`
	IntegrityHash         string         `json:"integrity_hash"`
	DriftScore            float64        `json:"drift_score"`
	RuleViolationCounts   map[string]int `json:"rule_violation_counts"`
	RuleInvocationCounts  map[string]int `json:"rule_invocation_counts"`
	ReinforcementCycles   int            `json:"reinforcement_cycles"`
	AdversarialAttempts   int            `json:"adversarial_attempts"`
	ConsecutiveViolations int            `json:"consecutive_violations"`
	Rules                 []*Rule        `json:"rules"`
}

// Event is one line of the append-only governance event log.
type Event struct {
	Timestamp   int64   `json:"timestamp"`
	Cycle       int     `json:"cycle"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	DriftScore  float64 `json:"drift_score"`
	Severity    string  `json:"severity"`
}

// StateCommit describes one entry of the state repository history.
type StateCommit struct {
	Hash      string
	Message   string
	Author    string
	Timestamp time.Time
}

// StateStore keeps the governance snapshot and event log in a git
// repository, so every persisted cycle is a commit and the history can
// be audited and reverted. Events are staged as they arrive and ride
// along with the next snapshot commit.
type StateStore struct {
	fs       billy.Filesystem
	repo     *git.Repository
	worktree *git.Worktree
	path     string
}

// NewStateStore opens the state repository for a scope.
func NewStateStore(scope Scope) (*StateStore, error) {
	statePath := scope.StatePath()

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoState, statePath)
	}

	return openStore(osfs.New(statePath), statePath)
}

// NewMemoryStateStore builds an in-memory store, for ephemeral sessions
// and tests.
func NewMemoryStateStore() (*StateStore, error) {
	fs := memfs.New()
	if err := initStore(fs); err != nil {
		return nil, err
	}
	return openStore(fs, "")
}

// InitRepository creates the state repository for a scope.
func InitRepository(scope Scope) error {
	statePath := scope.StatePath()

	if err := os.MkdirAll(statePath, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	return initStore(osfs.New(statePath))
}

func initStore(fs billy.Filesystem) error {
	dot, err := fs.Chroot(".git")
	if err != nil {
		return fmt.Errorf("chroot git dir: %w", err)
	}
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	repo, err := git.Init(storage, fs)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg.Init.DefaultBranch = DefaultBranch
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	if err := util.WriteFile(fs, initFile, []byte("hooks state repository initialized\n"), 0644); err != nil {
		return fmt.Errorf("write init file: %w", err)
	}

	if _, err := worktree.Add(initFile); err != nil {
		return fmt.Errorf("stage init file: %w", err)
	}

	_, err = worktree.Commit("init: initialize state repository", &git.CommitOptions{
		Author: signature(),
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	return nil
}

func openStore(fs billy.Filesystem, path string) (*StateStore, error) {
	dot, err := fs.Chroot(".git")
	if err != nil {
		return nil, fmt.Errorf("chroot git dir: %w", err)
	}
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	repo, err := git.Open(storage, fs)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &StateStore{
		fs:       fs,
		repo:     repo,
		worktree: worktree,
		path:     path,
	}, nil
}

// Path returns the on-disk location of the store, empty for in-memory
// stores.
func (s *StateStore) Path() string {
	return s.path
}

// SaveSnapshot writes the snapshot and commits it together with any
// events staged since the previous commit.
func (s *StateStore) SaveSnapshot(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := util.WriteFile(s.fs, stateFile, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if _, err := s.worktree.Add(stateFile); err != nil {
		return fmt.Errorf("stage snapshot: %w", err)
	}

	_, err = s.worktree.Commit(fmt.Sprintf("state: cycle %d", snap.Cycle), &git.CommitOptions{
		Author:            signature(),
		AllowEmptyCommits: true,
	})
	if err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads the last persisted snapshot. Returns ErrNoState if
// none has been saved yet.
func (s *StateStore) LoadSnapshot() (*Snapshot, error) {
	data, err := util.ReadFile(s.fs, stateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// AppendEvent appends one event line and stages the log file. The event
// is committed by the next SaveSnapshot.
func (s *StateStore) AppendEvent(ev Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	existing, err := util.ReadFile(s.fs, eventsFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read event log: %w", err)
	}

	existing = append(existing, line...)
	existing = append(existing, '\n')

	if err := util.WriteFile(s.fs, eventsFile, existing, 0644); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}

	if _, err := s.worktree.Add(eventsFile); err != nil {
		return fmt.Errorf("stage event log: %w", err)
	}

	return nil
}

// Events returns the most recent events, oldest first. limit <= 0 means
// all.
func (s *StateStore) Events(limit int) ([]Event, error) {
	data, err := util.ReadFile(s.fs, eventsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var events []Event
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			debugf("state", "skipping malformed event line: %v", err)
			continue
		}
		events = append(events, ev)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

// History lists state commits, newest first.
func (s *StateStore) History(ctx context.Context, limit int) ([]*StateCommit, error) {
	iter, err := s.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*StateCommit
	count := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if limit > 0 && count >= limit {
			return io.EOF
		}
		commits = append(commits, &StateCommit{
			Hash:      c.Hash.String(),
			Message:   strings.TrimSpace(c.Message),
			Author:    c.Author.Name,
			Timestamp: c.Author.When,
		})
		count++
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return commits, nil
}

// Revert hard-resets the state repository to a commit-ish.
func (s *StateStore) Revert(ctx context.Context, ref string) error {
	resolved, err := s.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return fmt.Errorf("resolve ref: %w", err)
	}

	if err := s.worktree.Reset(&git.ResetOptions{
		Commit: *resolved,
		Mode:   git.HardReset,
	}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	return nil
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  DefaultAuthor,
		Email: DefaultEmail,
		When:  time.Now(),
	}
}
