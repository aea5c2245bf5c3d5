package internal

import (
	"os"
	"path/filepath"
)

type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeProject ScopeType = "project"
)

type Scope struct {
	Type      ScopeType
	Path      string // working directory root
	HooksPath string // .hooks directory path
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.HooksPath, "config.yaml")
}

// StatePath is the governance state repository location. It lives under
// the hooks directory so a state revert cannot touch the config.
func (s Scope) StatePath() string {
	return filepath.Join(s.HooksPath, "state")
}

type ScopeResolver struct {
	homeDir string
}

func NewScopeResolver() *ScopeResolver {
	home, _ := os.UserHomeDir()
	return &ScopeResolver{homeDir: home}
}

func (r *ScopeResolver) Global() Scope {
	hooksPath := filepath.Join(r.homeDir, ".hooks")
	return Scope{
		Type:      ScopeGlobal,
		Path:      r.homeDir,
		HooksPath: hooksPath,
	}
}

func (r *ScopeResolver) Project() (Scope, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, false
	}
	return r.findProjectScope(cwd)
}

func (r *ScopeResolver) findProjectScope(dir string) (Scope, bool) {
	for {
		hooksPath := filepath.Join(dir, ".hooks")
		info, err := os.Stat(hooksPath)
		if err == nil && info.IsDir() {
			return Scope{Type: ScopeProject, Path: dir, HooksPath: hooksPath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Scope{}, false
		}
		dir = parent
	}
}

func (r *ScopeResolver) Resolve(explicit string) Scope {
	if explicit == "global" {
		return r.Global()
	}
	if scope, ok := r.Project(); ok {
		return scope
	}
	return r.Global()
}

func (r *ScopeResolver) Cascade() []Scope {
	scopes := []Scope{}
	if scope, ok := r.Project(); ok {
		scopes = append(scopes, scope)
	}
	scopes = append(scopes, r.Global())
	return scopes
}
