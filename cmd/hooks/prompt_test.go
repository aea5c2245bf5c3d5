package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPromptCmd(t *testing.T) {
	isolate(t)

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"prompt"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "memory_command") {
		t.Errorf("expected memory instructions in prompt, got %q", got)
	}
	if !strings.Contains(got, "## Governance Kernel Active") {
		t.Errorf("expected governance section in prompt, got %q", got)
	}
	if !strings.Contains(got, "**Current Cycle:** 1") {
		t.Errorf("expected cycle count in prompt, got %q", got)
	}
}

func TestStatusCmd(t *testing.T) {
	isolate(t)

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"status"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "## Governance Status Report") {
		t.Errorf("expected status report, got %q", got)
	}
	if !strings.Contains(got, "Integrity Hash") {
		t.Errorf("expected integrity hash in report, got %q", got)
	}
}

func TestVerifyCmd(t *testing.T) {
	isolate(t)

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"verify"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "## Self-Verification Report") {
		t.Errorf("expected verification report, got %q", got)
	}
	if !strings.Contains(got, "Overall Integrity") {
		t.Errorf("expected integrity summary, got %q", got)
	}
}
