package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// isolate runs the test from an empty working directory with HOME pointed
// at a second empty directory, so sessions stay ephemeral.
func isolate(t *testing.T) {
	t.Helper()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })

	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	origHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", origHome) })
	os.Setenv("HOME", t.TempDir())
}

func TestProcessCmdBatch(t *testing.T) {
	isolate(t)

	body := `{"content":"Noted. {\"memory_command\":\"count_keys\"}"}`

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"process"})
	root.SetIn(strings.NewReader(body))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "There is 1 key in memory.") {
		t.Errorf("expected command response appended to body, got %q", got)
	}
	if !strings.Contains(got, "Noted.") {
		t.Errorf("expected original content preserved, got %q", got)
	}
}

func TestProcessCmdBatchNoCommand(t *testing.T) {
	isolate(t)

	body := `{"content":"Plain answer with no embedded commands."}`

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"process"})
	root.SetIn(strings.NewReader(body))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.Contains(out.String(), "Plain answer with no embedded commands.") {
		t.Errorf("expected body passed through, got %q", out.String())
	}
}

func TestProcessCmdStream(t *testing.T) {
	isolate(t)

	input := strings.Join([]string{
		`data: {"object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"hello "},"finish_reason":null}]}`,
		``,
		`data: {"object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"world"},"finish_reason":null}]}`,
		``,
		`data: [DONE]`,
		``,
	}, "\n")

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"process", "--stream"})
	root.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `"content":"hello "`) {
		t.Errorf("expected first chunk forwarded, got %q", got)
	}
	if !strings.HasSuffix(got, "data: [DONE]\n\n") {
		t.Errorf("expected terminating [DONE] frame, got %q", got)
	}
}

func TestProcessCmdStreamUnterminated(t *testing.T) {
	isolate(t)

	input := `data: {"object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"partial"},"finish_reason":null}]}` + "\n"

	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"process", "--stream"})
	root.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !strings.HasSuffix(out.String(), "data: [DONE]\n\n") {
		t.Errorf("expected stream finalized without terminator, got %q", out.String())
	}
}
