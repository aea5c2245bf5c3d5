package v1

import (
	"strings"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(WithInMemoryState())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientSessionLifecycle(t *testing.T) {
	client := newTestClient(t)

	first, err := client.Session("alpha")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if first.ID() != "alpha" {
		t.Errorf("expected id alpha, got %q", first.ID())
	}

	again, err := client.Session("alpha")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if first.session != again.session {
		t.Error("expected same underlying session for same id")
	}

	if _, err := client.Session("beta"); err != nil {
		t.Fatalf("session: %v", err)
	}
	ids := client.Sessions()
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("unexpected session ids: %v", ids)
	}

	client.CloseSession("alpha")
	fresh, err := client.Session("alpha")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if fresh.session == first.session {
		t.Error("expected fresh session after close")
	}
}

func TestClientMemoryFacade(t *testing.T) {
	client := newTestClient(t)

	session, err := client.Session("mem")
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	mem := session.Memory()
	mem.Set("color", "blue")

	if !mem.Has("color") {
		t.Error("expected key to exist")
	}
	if got := mem.Get("color"); got != "blue" {
		t.Errorf("expected blue, got %q", got)
	}
	if mem.Count() != 2 {
		t.Errorf("expected 2 keys including instructions, got %d", mem.Count())
	}
	if mem.UsageBytes() <= 0 || mem.UsageBytes() > mem.QuotaBytes() {
		t.Errorf("implausible usage %d of %d", mem.UsageBytes(), mem.QuotaBytes())
	}

	mem.Del("color")
	if mem.Has("color") {
		t.Error("expected key deleted")
	}
}

func TestClientGovernanceFacade(t *testing.T) {
	client := newTestClient(t)

	session, err := client.Session("gov")
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	session.CycleStart()
	gov := session.Governance()
	if gov.Cycle() != 1 {
		t.Errorf("expected cycle 1, got %d", gov.Cycle())
	}

	rules := gov.Rules()
	if len(rules) != 28 {
		t.Errorf("expected 28 rules, got %d", len(rules))
	}

	report, err := gov.Command("governance_check", "")
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if !strings.Contains(report, "## Governance Status Report") {
		t.Errorf("unexpected report: %q", report)
	}

	resp, err := gov.Command("invoke_rule", "6")
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if !strings.Contains(resp, "Rule 6 has been invoked") {
		t.Errorf("unexpected response: %q", resp)
	}
}

func TestClientInjectionPrompt(t *testing.T) {
	client := newTestClient(t)

	session, err := client.Session("prompt")
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	session.CycleStart()
	prompt := session.InjectionPrompt()
	if !strings.Contains(prompt, "memory_command") {
		t.Errorf("expected memory instructions in prompt")
	}
	if !strings.Contains(prompt, "## Governance Kernel Active") {
		t.Errorf("expected governance section in prompt")
	}
}

func TestClientProcessBatch(t *testing.T) {
	client := newTestClient(t)

	session, err := client.Session("batch")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	session.CycleStart()

	body := []byte(`{"content":"Saving. {\"memory_command\":{\"op\":\"set_key\",\"key\":\"pet\",\"value\":\"cat\"}}"}`)
	edited, err := session.ProcessBatch(body)
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}

	if !strings.Contains(string(edited), `Created new key \"pet\"`) {
		t.Errorf("expected set_key response in body, got %s", edited)
	}
	if got := session.Memory().Get("pet"); got != "cat" {
		t.Errorf("expected stored value, got %q", got)
	}
}

func TestClientHandleTextAndFinalize(t *testing.T) {
	client := newTestClient(t)

	session, err := client.Session("text")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	session.CycleStart()

	resp := session.HandleText(`Done. {"memory_command":"count_keys"}`)
	if !strings.Contains(resp, "key in memory") {
		t.Errorf("unexpected response: %q", resp)
	}

	clean := "A perfectly ordinary answer about the weather today."
	if got := session.Finalize(clean); got != clean {
		t.Errorf("expected clean text unchanged, got %q", got)
	}
}

func TestClientEphemeralState(t *testing.T) {
	client, err := New(WithEphemeralState())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	session, err := client.Session("eph")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	session.CycleStart()
	if session.Governance().Cycle() != 1 {
		t.Error("expected cycle to advance without a state store")
	}
}
