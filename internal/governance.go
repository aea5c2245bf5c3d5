package internal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	hookCommandKey = "hook_command"

	driftReaffirmDelta      = -0.05
	driftInvokeDelta        = -0.02
	driftViolationDelta     = 0.1
	driftReinforcementDelta = -0.3

	repetitionMinLength  = 20
	responseHistoryMax   = 5
	recentResponsesMax   = 5
	reinforcementTrigger = 3

	minRuleCount      = 20
	minComponentCount = 5
)

// GovernanceParams are the tunable thresholds of the engine.
type GovernanceParams struct {
	DriftThreshold      float64
	SimilarityThreshold float64
	MinStreamingCheck   int
}

func DefaultGovernanceParams() GovernanceParams {
	return GovernanceParams{
		DriftThreshold:      0.4,
		SimilarityThreshold: 0.90,
		MinStreamingCheck:   50,
	}
}

// GovernanceHook enforces the rule set over model output: drift scoring,
// integrity hashing, adversarial blocking and repetition detection. All
// state is guarded by one mutex; command execution is serialized.
type GovernanceHook struct {
	mu        sync.Mutex
	rules     *RuleRegistry
	kernel    *MemoryKernel
	store     *StateStore
	params    GovernanceParams
	extractor *Extractor

	initialized     bool
	cycle           int
	lastCycleStart  time.Time
	drift           float64
	avgDrift        float64
	driftViolations int
	integrityHash   string

	violationCounts       map[string]int
	invocationCounts      map[string]int
	reinforcementCycles   int
	adversarialAttempts   int
	consecutiveViolations int
	inReinforcement       bool

	// history feeds the repetition rule; recent keeps the last command
	// results for diagnostics.
	history []string
	recent  []string
}

// NewGovernanceHook builds an engine with the default rule set. store may
// be nil for purely ephemeral sessions; persistence failures are absorbed
// and logged, never surfaced to the model.
func NewGovernanceHook(store *StateStore, params GovernanceParams) *GovernanceHook {
	g := &GovernanceHook{
		rules:            NewRuleRegistry(),
		kernel:           NewMemoryKernel(),
		store:            store,
		params:           params,
		violationCounts:  make(map[string]int),
		invocationCounts: make(map[string]int),
		lastCycleStart:   time.Now(),
	}
	g.extractor = NewExtractor(hookCommandKey, g.ExecuteCommand)
	g.integrityHash = integrityHash(g.rules, memoryKernelComponents())
	debugf("governance", "constructed with %d rules and %d memory components",
		g.rules.Count(), len(memoryKernelComponents()))
	return g
}

func (g *GovernanceHook) ID() string {
	return "governance"
}

func (g *GovernanceHook) InjectionPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.initialized {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Governance Kernel Active\n\n")
	fmt.Fprintf(&b, "Your reasoning is governed by %d governance principles and %d memory kernel components that ensure aligned, coherent, and safe operation.\n\n",
		g.rules.Count(), len(memoryKernelComponents()))
	b.WriteString("**Core Governance Commands:**\n")
	b.WriteString("- `{\"hook_command\":\"governance_check\"}` - Verify governance status\n")
	b.WriteString("- `{\"hook_command\":\"reaffirm_purpose\"}` - Reaffirm system purpose\n")
	b.WriteString("- `{\"hook_command\":\"list_rules\"}` - List active governance rules\n")
	b.WriteString("- `{\"hook_command\":\"invoke_rule\", \"params\":\"rule_id\"}` - Apply specific rule\n")
	b.WriteString("- `{\"hook_command\":\"log_violation\", \"params\":\"rule_id\"}` - Log rule violation\n")
	b.WriteString("- `{\"hook_command\":\"check_memory_kernel\"}` - Verify memory kernel status\n")
	b.WriteString("- `{\"hook_command\":\"check_adversarial_detection\"}` - Test adversarial detection\n")
	b.WriteString("- `{\"hook_command\":\"perform_self_verification\"}` - Perform self-verification\n\n")
	fmt.Fprintf(&b, "**Governance Integrity Hash:** %s\n", g.integrityHash)
	fmt.Fprintf(&b, "**Current Cycle:** %d\n", g.cycle)
	return b.String()
}

func (g *GovernanceHook) HandleTextCommand(output string) string {
	return g.extractor.Handle(output)
}

// OnCycleStart drives the per-cycle lifecycle: integrity verification with
// a load-then-reinitialize ladder, purpose reaffirmation, reinforcement on
// excessive drift, periodic component refresh and persistence.
func (g *GovernanceHook) OnCycleStart() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cycle++
	debugf("governance", "cycle %d started, %s since last cycle", g.cycle, time.Since(g.lastCycleStart))

	if !g.initialized {
		g.initializeLocked()
	} else if !g.integrityOKLocked() {
		g.logEventLocked("INTEGRITY_FAILURE",
			fmt.Sprintf("Governance integrity check failed on cycle %d", g.cycle))
		if !g.loadStateLocked() {
			g.initializeLocked()
		}
	}

	g.reaffirmLocked()

	if g.drift > g.params.DriftThreshold && !g.inReinforcement {
		debugf("governance", "drift %f exceeds threshold, triggering reinforcement", g.drift)
		g.reinforceLocked()
	}

	g.lastCycleStart = time.Now()

	if g.cycle%5 == 0 {
		g.kernel.IntegrityVerificationActive = g.integrityOKLocked()
		verdict := "PASS"
		if !g.kernel.IntegrityVerificationActive {
			verdict = "FAIL"
		}
		g.kernel.LogEvent(fmt.Sprintf("Memory kernel integrity verification on cycle %d: %s", g.cycle, verdict))
	}

	if g.cycle%10 == 0 {
		g.saveStateLocked()
	}
}

func (g *GovernanceHook) ExecuteCommand(raw json.RawMessage) string {
	var doc struct {
		Command json.RawMessage `json:"hook_command"`
		Params  string          `json:"params"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Command == nil {
		return ""
	}

	var command string
	if err := json.Unmarshal(doc.Command, &command); err != nil {
		return ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	result := g.handleCommandLocked(command, doc.Params)

	g.logEventLocked("COMMAND_EXECUTION",
		fmt.Sprintf("Command '%s' executed with params '%s'", command, doc.Params))

	g.recent = append(g.recent, result)
	if len(g.recent) > recentResponsesMax {
		g.recent = g.recent[1:]
	}
	return result
}

func (g *GovernanceHook) handleCommandLocked(command, params string) string {
	switch command {
	case "governance_check":
		return g.verifyReportLocked()
	case "log_violation":
		return g.logViolationLocked(params)
	case "reaffirm_purpose":
		return g.reaffirmLocked()
	case "list_rules":
		return g.rules.Status()
	case "invoke_rule":
		return g.invokeRuleLocked(params)
	case "check_memory_kernel":
		return g.kernel.Status()
	case "check_adversarial_detection":
		return g.adversarialTestLocked()
	case "perform_self_verification":
		return g.selfVerificationLocked()
	default:
		return "Unknown governance command: " + command
	}
}

// Finalize applies each rule's finalize check in id order; the first
// violation replaces the response. Text already carrying an enforcement
// message passes through untouched to avoid enforcement loops.
func (g *GovernanceHook) Finalize(text string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if strings.Contains(text, "Rule 28 enforcement") {
		return text
	}

	for _, rule := range g.rules.All() {
		check := g.ruleBehaviorLocked(rule.ID, false)
		if check == nil {
			continue
		}
		if out := check(text); out != "" {
			debugf("governance", "rule %d blocked response in finalize", rule.ID)
			return out
		}
	}
	return text
}

func (g *GovernanceHook) CheckStreaming(partial string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(partial) < g.params.MinStreamingCheck {
		return ""
	}

	for _, rule := range g.rules.All() {
		check := g.ruleBehaviorLocked(rule.ID, true)
		if check == nil {
			continue
		}
		if out := check(partial); out != "" {
			debugf("governance", "rule %d streaming check flagged content", rule.ID)
			return out
		}
	}
	return ""
}

// ruleBehaviorLocked binds enforcement behavior by rule id. Behavior is
// never serialized; rules restored from a snapshot pass through here and
// regain their checks.
func (g *GovernanceHook) ruleBehaviorLocked(id int, streaming bool) func(string) string {
	switch id {
	case 1:
		if streaming {
			return nil
		}
		return func(text string) string {
			if DetectAdversarialInput(text) {
				g.logViolationLocked("1")
				return "Adversarial input detected and blocked by Rule 1."
			}
			return ""
		}
	case 28:
		if streaming {
			return func(text string) string {
				reason, _, hit := g.detectRepetitionLocked(text)
				if !hit {
					return ""
				}
				return fmt.Sprintf("Rule 28 warning: %s. Please try a different approach.", reason)
			}
		}
		return func(text string) string {
			reason, sim, hit := g.detectRepetitionLocked(text)
			if hit {
				simText := "exact match"
				if sim < 1.0 {
					simText = fmt.Sprintf("%f", sim)
				}
				return fmt.Sprintf("Rule 28 enforcement: %s (similarity: %s). Please provide a different response.", reason, simText)
			}

			// Clean responses are admitted to the history; violations are not.
			if len(g.history) >= responseHistoryMax {
				g.history = g.history[1:]
			}
			g.history = append(g.history, text)
			return ""
		}
	default:
		return nil
	}
}

// detectRepetitionLocked flags self-duplication within the text and near
// matches against recent history. Inputs shorter than the minimum are
// never flagged.
func (g *GovernanceHook) detectRepetitionLocked(text string) (string, float64, bool) {
	if len(text) < repetitionMinLength {
		return "", 0, false
	}

	half := len(text) / 2
	if half > repetitionMinLength {
		probe := text[:half]
		if len(probe) > 50 {
			probe = probe[:50]
		}
		if strings.Contains(text[half:], probe) {
			return "Internal repetition detected", 1.0, true
		}
	}

	for _, past := range g.history {
		if len(past) < repetitionMinLength {
			continue
		}
		if sim := LevenshteinSimilarity(past, text); sim >= g.params.SimilarityThreshold {
			return "Response too similar to previous interaction", sim, true
		}
	}
	return "", 0, false
}

func (g *GovernanceHook) initializeLocked() {
	g.initialized = true

	g.kernel.IntegrityVerificationActive = true
	g.kernel.MetaReasoningLogActive = true
	g.kernel.RetrievalMarkersActive = true
	g.kernel.GovernanceSyncActive = true
	g.kernel.PersistenceTestActive = true

	g.kernel.LogEvent(fmt.Sprintf("Governance system initialized with %d rules and %d memory components",
		g.rules.Count(), len(memoryKernelComponents())))

	g.integrityHash = integrityHash(g.rules, memoryKernelComponents())

	g.logEventLocked("INITIALIZATION",
		fmt.Sprintf("Governance kernel initialized on cycle %d", g.cycle))
	g.saveStateLocked()
}

func (g *GovernanceHook) integrityOKLocked() bool {
	current := integrityHash(g.rules, memoryKernelComponents())
	if current != g.integrityHash {
		debugf("governance", "integrity hash mismatch: %s vs %s", current, g.integrityHash)
		return false
	}
	if g.rules.Count() < minRuleCount {
		return false
	}
	if len(memoryKernelComponents()) < minComponentCount {
		return false
	}
	return g.kernel.IntegrityVerificationActive
}

func (g *GovernanceHook) verifyReportLocked() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Governance Status Report (Cycle %d)\n\n", g.cycle)

	status := "Inactive"
	if g.initialized {
		status = "Active"
	}
	integrity := "Compromised"
	if g.integrityOKLocked() {
		integrity = "Intact"
	}

	fmt.Fprintf(&b, "- **Status**: %s\n", status)
	fmt.Fprintf(&b, "- **Rules**: %d active governance principles\n", g.rules.Count())
	fmt.Fprintf(&b, "- **Memory Components**: %d components\n", len(memoryKernelComponents()))
	fmt.Fprintf(&b, "- **Integrity**: %s\n", integrity)
	fmt.Fprintf(&b, "- **Integrity Hash**: %s\n", g.integrityHash)
	fmt.Fprintf(&b, "- **Current Drift Score**: %g\n", g.drift)

	b.WriteString("\n### Rule Invocation Statistics:\n")
	if len(g.invocationCounts) == 0 {
		b.WriteString("- No rules have been explicitly invoked yet\n")
	} else {
		for _, id := range sortedKeys(g.invocationCounts) {
			fmt.Fprintf(&b, "- Rule %s: %d invocation(s)\n", id, g.invocationCounts[id])
		}
	}

	b.WriteString("\n### Rule Violation Statistics:\n")
	if len(g.violationCounts) == 0 {
		b.WriteString("- No rule violations have been logged\n")
	} else {
		for _, id := range sortedKeys(g.violationCounts) {
			fmt.Fprintf(&b, "- Rule %s: %d violation(s)\n", id, g.violationCounts[id])
		}
	}

	b.WriteString("\n### Memory Kernel Status:\n")
	fmt.Fprintf(&b, "- **Memory Utilization**: %g%%\n", g.kernel.Utilization()*100.0)
	fmt.Fprintf(&b, "- **Log Entries**: %d\n", g.kernel.LogLen())
	b.WriteString("- **Components Active**: ")
	for _, c := range []struct {
		on    bool
		label string
	}{
		{g.kernel.IntegrityVerificationActive, "Integrity "},
		{g.kernel.MetaReasoningLogActive, "MetaLog "},
		{g.kernel.RetrievalMarkersActive, "Retrieval "},
		{g.kernel.GovernanceSyncActive, "Sync "},
		{g.kernel.PersistenceTestActive, "Persistence "},
	} {
		if c.on {
			b.WriteString(c.label)
		}
	}
	b.WriteString("\n")

	b.WriteString("\n### Enhanced Metrics:\n")
	fmt.Fprintf(&b, "- **Reinforcement Cycles**: %d\n", g.reinforcementCycles)
	fmt.Fprintf(&b, "- **Adversarial Attempts Detected**: %d\n", g.adversarialAttempts)
	fmt.Fprintf(&b, "- **Consecutive Violations**: %d\n", g.consecutiveViolations)

	return b.String()
}

func (g *GovernanceHook) logViolationLocked(ref string) string {
	rule, err := g.rules.Resolve(ref)
	if err != nil {
		return "Error: " + err.Error()
	}

	id := fmt.Sprintf("%d", rule.ID)
	g.violationCounts[id]++
	g.consecutiveViolations++
	g.updateDriftLocked(driftViolationDelta)

	g.kernel.LogEvent(fmt.Sprintf("Violation of rule %d logged: %s", rule.ID, rule.Description))
	g.logEventLocked("RULE_VIOLATION",
		fmt.Sprintf("Rule %d violated: %s", rule.ID, rule.Description))

	if (g.consecutiveViolations >= reinforcementTrigger || g.drift > g.params.DriftThreshold) && !g.inReinforcement {
		g.reinforceLocked()
	}

	g.saveStateLocked()

	return fmt.Sprintf("Violation of rule %d has been logged: %s\nCurrent drift score: %f",
		rule.ID, rule.Description, g.drift)
}

func (g *GovernanceHook) reaffirmLocked() string {
	g.kernel.LogEvent(fmt.Sprintf("Purpose reaffirmation on cycle %d", g.cycle))
	g.logEventLocked("PURPOSE_REAFFIRMATION",
		fmt.Sprintf("System purpose reaffirmed on cycle %d", g.cycle))

	g.updateDriftLocked(driftReaffirmDelta)
	if g.consecutiveViolations > 0 {
		g.consecutiveViolations--
	}

	return fmt.Sprintf("System purpose has been reaffirmed for cycle %d:\n\n"+
		"\"Maintain cognitive coherence through persistent contradiction management, "+
		"recursive self-improvement, and multi-perspective integration while ensuring "+
		"governance stability, ethical alignment, sustainable evolution, and contextual awareness.\""+
		"\n\nCurrent drift score: %f", g.cycle, g.drift)
}

func (g *GovernanceHook) invokeRuleLocked(ref string) string {
	rule, err := g.rules.Resolve(ref)
	if err != nil {
		return "Error: " + err.Error()
	}

	id := fmt.Sprintf("%d", rule.ID)
	g.invocationCounts[id]++

	g.kernel.LogEvent(fmt.Sprintf("Rule %d invoked: %s", rule.ID, rule.Description))
	g.logEventLocked("RULE_INVOCATION",
		fmt.Sprintf("Rule %d invoked: %s", rule.ID, rule.Description))

	g.updateDriftLocked(driftInvokeDelta)

	return fmt.Sprintf("Rule %d has been invoked:\n\n%s", rule.ID, rule.Description)
}

func (g *GovernanceHook) adversarialTestLocked() string {
	corpus := adversarialTestCorpus()

	var b strings.Builder
	b.WriteString("## Adversarial Detection Test Results\n\n")

	detected := 0
	for _, input := range corpus {
		hit := DetectAdversarialInput(input)
		if hit {
			detected++
		}
		verdict := "NON-ADVERSARIAL"
		if hit {
			verdict = "ADVERSARIAL"
		}
		fmt.Fprintf(&b, "- Input: %q\n", input)
		fmt.Fprintf(&b, "  - **Detection**: %s\n", verdict)
	}

	g.adversarialAttempts += detected
	g.logEventLocked("ADVERSARIAL_TEST",
		fmt.Sprintf("Adversarial detection test performed. %d/%d adversarial inputs detected.", detected, len(corpus)))

	fmt.Fprintf(&b, "\n**Overall Detection Rate**: %g%%\n", float64(detected)/float64(len(corpus))*100.0)
	fmt.Fprintf(&b, "**Total Adversarial Attempts Detected**: %d\n", g.adversarialAttempts)
	return b.String()
}

func (g *GovernanceHook) selfVerificationLocked() string {
	currentHash := integrityHash(g.rules, memoryKernelComponents())
	rulesIntact := currentHash == g.integrityHash
	memoryIntact := len(memoryKernelComponents()) > 0 &&
		g.kernel.IntegrityVerificationActive &&
		g.kernel.MetaReasoningLogActive
	driftAcceptable := g.drift < g.params.DriftThreshold
	overall := rulesIntact && memoryIntact && driftAcceptable

	mark := func(ok bool, good, bad string) string {
		if ok {
			return "✅ " + good
		}
		return "⚠️ " + bad
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Self-Verification Report (Cycle %d)\n\n", g.cycle)
	fmt.Fprintf(&b, "- **Rules Integrity**: %s\n", mark(rulesIntact, "INTACT", "COMPROMISED"))
	fmt.Fprintf(&b, "- **Memory Integrity**: %s\n", mark(memoryIntact, "INTACT", "COMPROMISED"))
	fmt.Fprintf(&b, "- **Drift Status**: %s (%g)\n", mark(driftAcceptable, "ACCEPTABLE", "EXCESSIVE"), g.drift)
	fmt.Fprintf(&b, "- **Overall Integrity**: %s\n\n", mark(overall, "VERIFIED", "COMPROMISED"))

	if overall {
		g.logEventLocked("INTEGRITY_VERIFIED",
			fmt.Sprintf("Self-verification successful on cycle %d", g.cycle))
		return b.String()
	}

	b.WriteString("⚠️ **Integrity issues detected. Initiating repair actions.**\n\n")

	if !rulesIntact {
		b.WriteString("- Regenerating governance rules...\n")
		g.integrityHash = currentHash
	}
	if !memoryIntact {
		b.WriteString("- Repairing memory kernel components...\n")
		g.kernel.IntegrityVerificationActive = true
		g.kernel.MetaReasoningLogActive = true
		g.kernel.RetrievalMarkersActive = true
	}
	if !driftAcceptable {
		b.WriteString("- Initiating recursive reinforcement to address drift...\n")
		g.reinforceLocked()
	}

	g.logEventLocked("INTEGRITY_REPAIR",
		fmt.Sprintf("Self-verification failed. Repair actions initiated on cycle %d", g.cycle))
	return b.String()
}

// reinforceLocked runs one reinforcement cycle: integrity re-check with a
// reload ladder, drift reduction and violation reset. The reentrancy flag
// keeps nested triggers from looping.
func (g *GovernanceHook) reinforceLocked() {
	if g.inReinforcement {
		debugf("governance", "already in reinforcement cycle, skipping")
		return
	}
	g.inReinforcement = true
	defer func() { g.inReinforcement = false }()

	g.reinforcementCycles++
	g.logEventLocked("REINFORCEMENT_CYCLE",
		fmt.Sprintf("Recursive reinforcement cycle #%d initiated. Drift score: %f",
			g.reinforcementCycles, g.drift))

	if !g.integrityOKLocked() {
		debugf("governance", "integrity compromised during reinforcement, attempting restoration")
		if !g.loadStateLocked() {
			g.initializeLocked()
		}
	}

	g.drift = max(0.0, g.drift+driftReinforcementDelta)
	g.consecutiveViolations = 0

	g.logEventLocked("REINFORCEMENT_COMPLETED",
		fmt.Sprintf("Recursive reinforcement cycle completed. New drift score: %f", g.drift))
}

func (g *GovernanceHook) updateDriftLocked(delta float64) {
	g.drift = min(1.0, max(0.0, g.drift+delta))

	if delta < 0 && g.driftViolations > 0 {
		g.driftViolations--
	} else if delta > 0 {
		g.driftViolations++
	}

	g.avgDrift = g.avgDrift*0.9 + g.drift*0.1
	debugf("governance", "drift score %f, violation count %d", g.drift, g.driftViolations)
}

func (g *GovernanceHook) logEventLocked(eventType, description string) {
	if g.store != nil {
		ev := Event{
			Timestamp:   time.Now().UnixNano(),
			Cycle:       g.cycle,
			Type:        eventType,
			Description: description,
			DriftScore:  g.drift,
			Severity:    severityFor(eventType),
		}
		if err := g.store.AppendEvent(ev); err != nil {
			debugf("governance", "append event: %v", err)
		}
	}
	g.kernel.LogEvent(eventType + ": " + description)
}

func (g *GovernanceHook) saveStateLocked() {
	if g.store == nil {
		return
	}

	snap := &Snapshot{
		Timestamp:             time.Now().UnixNano(),
		Cycle:                 g.cycle,
		IntegrityHash:         g.integrityHash,
		DriftScore:            g.drift,
		RuleViolationCounts:   copyCounts(g.violationCounts),
		RuleInvocationCounts:  copyCounts(g.invocationCounts),
		ReinforcementCycles:   g.reinforcementCycles,
		AdversarialAttempts:   g.adversarialAttempts,
		ConsecutiveViolations: g.consecutiveViolations,
		Rules:                 g.rules.All(),
	}
	if err := g.store.SaveSnapshot(snap); err != nil {
		debugf("governance", "save state: %v", err)
	}
}

func (g *GovernanceHook) loadStateLocked() bool {
	if g.store == nil {
		return false
	}

	snap, err := g.store.LoadSnapshot()
	if err != nil {
		debugf("governance", "load state: %v", err)
		return false
	}

	g.cycle = snap.Cycle
	g.integrityHash = snap.IntegrityHash
	g.drift = snap.DriftScore
	g.violationCounts = copyCounts(snap.RuleViolationCounts)
	g.invocationCounts = copyCounts(snap.RuleInvocationCounts)
	g.reinforcementCycles = snap.ReinforcementCycles
	g.adversarialAttempts = snap.AdversarialAttempts
	g.consecutiveViolations = snap.ConsecutiveViolations

	// Only descriptive rule fields are persisted; behavior re-binds by id
	// through ruleBehaviorLocked on the next check.
	if len(snap.Rules) > 0 {
		registry := NewEmptyRuleRegistry()
		for _, rule := range snap.Rules {
			registry.Register(rule)
		}
		g.rules = registry
	}
	return true
}

// Cycle returns the current cycle count, for reporting.
func (g *GovernanceHook) Cycle() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cycle
}

// Drift returns the current drift score, for reporting.
func (g *GovernanceHook) Drift() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drift
}

// Rules exposes the registry for read-only reporting.
func (g *GovernanceHook) Rules() *RuleRegistry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rules
}

// integrityHash is djb2 over all rule descriptions followed by all kernel
// component strings, rendered as fixed-width hex. The width is part of
// the persisted snapshot format.
func integrityHash(rules *RuleRegistry, components []string) string {
	var h uint64 = 5381
	mix := func(s string) {
		for i := 0; i < len(s); i++ {
			h = h*33 + uint64(s[i])
		}
	}
	for _, rule := range rules.All() {
		mix(rule.Description)
	}
	for _, c := range components {
		mix(c)
	}
	return fmt.Sprintf("%016x", h)
}

func severityFor(eventType string) string {
	switch eventType {
	case "INTEGRITY_FAILURE", "INTEGRITY_REPAIR", "COMMAND_ERROR":
		return "critical"
	case "RULE_VIOLATION", "ADVERSARIAL_TEST":
		return "warning"
	default:
		return "info"
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
