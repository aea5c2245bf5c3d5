package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	hooksPath := filepath.Join(tmpDir, ".hooks")
	if _, err := os.Stat(hooksPath); os.IsNotExist(err) {
		t.Error(".hooks directory not created")
	}

	statePath := filepath.Join(hooksPath, "state")
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error("state directory not created")
	}

	configPath := filepath.Join(hooksPath, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config.yaml not created")
	}
}

func TestInitCmdAlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	hooksPath := filepath.Join(tmpDir, ".hooks")
	if err := os.MkdirAll(hooksPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	if err == nil {
		t.Error("expected error for already initialized")
	}
}

func TestInitCmdGlobal(t *testing.T) {
	tmpDir := t.TempDir()

	origHome := os.Getenv("HOME")
	defer os.Setenv("HOME", origHome)
	os.Setenv("HOME", tmpDir)

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"--global"})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	hooksPath := filepath.Join(tmpDir, ".hooks")
	if _, err := os.Stat(hooksPath); os.IsNotExist(err) {
		t.Error("global .hooks directory not created")
	}
}
