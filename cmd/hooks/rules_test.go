package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRulesCmd(t *testing.T) {
	isolate(t)

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"rules"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "## Governance Rules Status") {
		t.Errorf("expected status header, got %q", got)
	}
	if !strings.Contains(got, "Autonomous Governance Reaffirmation") {
		t.Errorf("expected rule 1 listed, got %q", got)
	}
	if !strings.Contains(got, "Cognitive Mirroring Detection") {
		t.Errorf("expected rule 28 listed, got %q", got)
	}
}

func TestRulesCmdJSON(t *testing.T) {
	isolate(t)

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"rules", "--json"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var rules []map[string]any
	if err := json.Unmarshal(out.Bytes(), &rules); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(rules) != 28 {
		t.Errorf("expected 28 rules, got %d", len(rules))
	}
	if rules[0]["name"] != "Autonomous Governance Reaffirmation" {
		t.Errorf("unexpected first rule: %v", rules[0])
	}
}
