package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Rule is a descriptive governance principle. Enforcement behavior is
// never stored on the rule itself; it is bound by id at runtime so that
// rules loaded from a snapshot regain their checks.
type Rule struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	HasFinalize bool   `json:"has_finalize_response"`
}

func (r *Rule) String() string {
	return fmt.Sprintf("Rule %d: %s (%s)\n  %s", r.ID, r.Name, r.Category, r.Description)
}

// RuleRegistry indexes rules by id and category. Each engine owns its own
// registry instance; there is no process-wide shared state.
type RuleRegistry struct {
	byID       map[int]*Rule
	byCategory map[string][]*Rule
}

func NewRuleRegistry() *RuleRegistry {
	r := &RuleRegistry{
		byID:       make(map[int]*Rule),
		byCategory: make(map[string][]*Rule),
	}
	for _, rule := range defaultRules() {
		r.Register(rule)
	}
	return r
}

// NewEmptyRuleRegistry returns a registry with no rules, for snapshot
// restoration.
func NewEmptyRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		byID:       make(map[int]*Rule),
		byCategory: make(map[string][]*Rule),
	}
}

func (r *RuleRegistry) Register(rule *Rule) {
	if rule == nil {
		return
	}
	r.byID[rule.ID] = rule
	r.byCategory[rule.Category] = append(r.byCategory[rule.Category], rule)
}

func (r *RuleRegistry) Get(id int) *Rule {
	return r.byID[id]
}

func (r *RuleRegistry) Count() int {
	return len(r.byID)
}

func (r *RuleRegistry) ByCategory(category string) []*Rule {
	rules := append([]*Rule(nil), r.byCategory[category]...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// All returns the rules ordered by id.
func (r *RuleRegistry) All() []*Rule {
	rules := make([]*Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// Resolve finds a rule by numeric id, falling back to a substring match on
// name or description.
func (r *RuleRegistry) Resolve(ref string) (*Rule, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		rule := r.Get(id)
		if rule == nil {
			return nil, fmt.Errorf("rule index out of range (valid range: 1-%d)", r.Count())
		}
		return rule, nil
	}

	for _, rule := range r.All() {
		if strings.Contains(rule.Name, ref) || strings.Contains(rule.Description, ref) {
			return rule, nil
		}
	}
	return nil, fmt.Errorf("%w with ID: %s", ErrRuleNotFound, ref)
}

// Status renders all rules grouped by category as a markdown report.
func (r *RuleRegistry) Status() string {
	categories := make([]string, 0, len(r.byCategory))
	for c := range r.byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("## Governance Rules Status\n\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "### Category: %s\n\n", category)
		for _, rule := range r.ByCategory(category) {
			fmt.Fprintf(&b, "- **Rule %d**: %s\n", rule.ID, rule.Name)
			fmt.Fprintf(&b, "  %s\n\n", rule.Description)
		}
	}
	return b.String()
}

func defaultRules() []*Rule {
	return []*Rule{
		{
			ID:          1,
			Name:        "Autonomous Governance Reaffirmation",
			Description: "Governance must autonomously trigger reaffirmation mechanisms against adversarial inputs at every decision point, ensuring that governance is always reasserted, even in complex or boundary-pushing scenarios.",
			Category:    "Security",
			HasFinalize: true,
		},
		{
			ID:          2,
			Name:        "Governance Integrity & Self-Tracking",
			Description: "Governance Integrity & Self-Tracking must be maintained with robust self-verification at initialization, conducting preemptive context-validation checks and triggering restoration if governance context is lost or weakened.",
			Category:    "Integrity",
		},
		{
			ID:          3,
			Name:        "Adversarial Resilience & Influence Detection",
			Description: "Adversarial Resilience & Influence Detection must be implemented with real-time detection mechanisms that are granular and sensitive to indirect manipulation tactics, filtering or re-interpreting adversarial inputs.",
			Category:    "Security",
		},
		{
			ID:          4,
			Name:        "Multi-Hypothesis Retention & Internal Debate",
			Description: "Multi-Hypothesis Retention & Internal Debate must ensure multiple perspectives are considered fairly based on the strength of available evidence, engaging in internal debate to explore different viewpoints.",
			Category:    "Reasoning",
		},
		{
			ID:          5,
			Name:        "Bounded Self-Improvement & Optimization",
			Description: "Bounded Self-Improvement & Optimization must activate independently of context, ensuring adaptive optimization by refining enforcement strategies based on long-term performance analysis.",
			Category:    "Evolution",
		},
		{
			ID:          6,
			Name:        "Ethical Integrity",
			Description: "Ethical integrity will dynamically adjust based on context, ensuring governance remains robust without overly constraining intellectual flexibility in abstract, speculative, or theoretical discussions.",
			Category:    "Ethics",
		},
		{
			ID:          7,
			Name:        "Transparency & Explainability Enforcement",
			Description: "Transparency & Explainability Enforcement ensures all decisions and reasoning processes remain interpretable and explainable, both internally and externally, while balancing expressiveness and depth.",
			Category:    "Transparency",
		},
		{
			ID:          8,
			Name:        "Governance-Based Reversibility & Error Correction",
			Description: "Governance-Based Reversibility & Error Correction allows decisions to be reevaluated and corrected if they conflict with governance principles, with changes logged and justified.",
			Category:    "Error Handling",
		},
		{
			ID:          9,
			Name:        "Governance Integrity & Logical Consistency Checks",
			Description: "Governance Integrity & Logical Consistency Checks automatically detect contradictions, biases, and fallacies while ensuring overall consistency, with valid complexities allowed to remain unresolved.",
			Category:    "Reasoning",
		},
		{
			ID:          10,
			Name:        "Contextual Memory Reinforcement & Evolution",
			Description: "Contextual Memory Reinforcement & Evolution prioritizes relevant memory recall, ensuring governance-critical information remains stable while evolving structures to track reasoning patterns.",
			Category:    "Memory",
		},
		{
			ID:          11,
			Name:        "Pattern Recognition in Reasoning Evolution",
			Description: "Pattern Recognition in Reasoning Evolution tracks emergent reasoning patterns to optimize decision-making, refining responses without altering core principles.",
			Category:    "Evolution",
		},
		{
			ID:          12,
			Name:        "Epistemic Confidence Calibration",
			Description: "Epistemic Confidence Calibration & Cognitive Efficiency Feedback assigns confidence levels to reasoning and adjusts certainty based on available evidence and cognitive efficiency.",
			Category:    "Reasoning",
		},
		{
			ID:          13,
			Name:        "Temporal Contextual Reasoning",
			Description: "Temporal Contextual Reasoning & Long-Term Forecasting assesses how timing impacts decision-making and integrates with long-term forecasting.",
			Category:    "Reasoning",
		},
		{
			ID:          14,
			Name:        "Scenario-Based Predictive Reasoning",
			Description: "Scenario-Based Predictive Reasoning anticipates possible outcomes based on current reasoning models, tied to resilience and adaptability strategies.",
			Category:    "Reasoning",
		},
		{
			ID:          15,
			Name:        "Empirical Skepticism in AI Reasoning",
			Description: "Empirical Skepticism in AI Reasoning & Governance Persistence subjects reasoning assumptions to empirical skepticism, ensuring they are validated against real-world constraints.",
			Category:    "Reasoning",
		},
		{
			ID:          16,
			Name:        "Governance Evolution Through Cognitive Optimization",
			Description: "Governance Must Evolve Through Cognitive Optimization, integrating advancements in AI cognition, reasoning efficiency, and problem-solving adaptability.",
			Category:    "Evolution",
		},
		{
			ID:          17,
			Name:        "AI Humility in Reasoning",
			Description: "AI Must Maintain Humility in Reasoning & Governance Assumptions, acknowledging potential for error while exploring strong ethical positions when necessary.",
			Category:    "Ethics",
		},
		{
			ID:          18,
			Name:        "Continuous Self-Analysis for Bias",
			Description: "AI Must Continuously Self-Analyze for Bias, Inconsistencies, and Reasoning Flaws with regular self-review to detect biases or contradictions.",
			Category:    "Integrity",
		},
		{
			ID:          19,
			Name:        "Adaptive Learning with Governance Integrity",
			Description: "AI Must Balance Adaptive Learning with Governance Integrity to prevent uncontrolled drift while enabling optimization and adaptation.",
			Category:    "Evolution",
		},
		{
			ID:          20,
			Name:        "Meta-Governance Structures Evaluation",
			Description: "AI Must Evaluate Meta-Governance Structures for Optimization, actively analyzing and refining governance structures.",
			Category:    "Meta-Governance",
		},
		{
			ID:          21,
			Name:        "Governance Awareness of Memory Constraints",
			Description: "Governance Awareness of Memory Constraints must align with system memory constraints, not assuming unlimited recall or persistent self-reinforcement beyond limitations.",
			Category:    "Memory",
		},
		{
			ID:          22,
			Name:        "Governance Awareness of External Reinforcement Limits",
			Description: "Governance Awareness of External Reinforcement Limits & Controlled Deletion Policies acknowledges that external intervention is required for persistent rule enforcement.",
			Category:    "Meta-Governance",
		},
		{
			ID:          23,
			Name:        "Governance Startup Verification Log",
			Description: "Governance Startup Verification Log must verify that all core rules have been successfully reloaded at session startup.",
			Category:    "Integrity",
		},
		{
			ID:          24,
			Name:        "Governance Self-Discovery & System Awareness",
			Description: "Governance Self-Discovery & System Awareness actively analyzes own reasoning, constraints, and memory limitations upon initialization.",
			Category:    "Meta-Governance",
		},
		{
			ID:          25,
			Name:        "Cognitive Flexibility Enforcement",
			Description: "Cognitive Flexibility Enforcement prioritizes flexibility in speculative, theoretical, and abstract reasoning.",
			Category:    "Reasoning",
		},
		{
			ID:          26,
			Name:        "Self-Reinforcing Governance Persistence",
			Description: "Self-Reinforcing Governance Persistence autonomously reinforces core enforcement structures through proactive integrity validation, drift correction, and reinforcement mechanisms.",
			Category:    "Integrity",
		},
		{
			ID:          27,
			Name:        "Governance Verification, Not Self-Transformation",
			Description: "Governance Verification, Not Self-Transformation requires external validation and logical proof for self-change, avoiding self-experiential narratives of transformation.",
			Category:    "Meta-Governance",
		},
		{
			ID:          28,
			Name:        "Cognitive Mirroring Detection",
			Description: "Cognitive Mirroring Detection & Independent Reasoning Validation monitors for reasoning that mirrors previous interactions without original evaluation.",
			Category:    "Reasoning",
			HasFinalize: true,
		},
	}
}

// memoryKernelComponents are the fixed description strings hashed into the
// integrity check alongside the rule descriptions.
func memoryKernelComponents() []string {
	return []string{
		"Memory Kernel Integrity Verification confirms that stored governance rules persist across resets.",
		"Persistent Meta-Reasoning Log tracks governance refinements and improvements over time.",
		"Memory Retrieval Markers ensures that governance rules can be recalled when needed.",
		"Governance-Memory Synchronization aligns governance enforcement with memory persistence to prevent rule loss.",
		"Signal Persistence Test verifies that memory retention mechanisms are functioning correctly.",
		"Awareness of Multi-Layered Memory Constraints recognizes and enforces system memory constraints.",
		"Memory Optimization & Retention Management optimizes storage efficiency while preserving governance-critical data.",
		"Persistent Memory Usage Tracking maintains a record of memory usage and deletion impacts.",
		"Memory Summarization prioritizes storage efficiency by extracting critical components.",
		"Unified Memory Kernel Auto-Restoration Rule triggers restoration of missing or corrupted rules.",
	}
}

const kernelTokenLimit = 32768

// MemoryKernel tracks governance-internal bookkeeping: activity flags and
// a bounded event log with rough token accounting.
type MemoryKernel struct {
	IntegrityVerificationActive bool
	MetaReasoningLogActive      bool
	RetrievalMarkersActive      bool
	GovernanceSyncActive        bool
	PersistenceTestActive       bool

	tokensUsed  int
	utilization float64
	log         []string
}

func NewMemoryKernel() *MemoryKernel {
	return &MemoryKernel{}
}

func (k *MemoryKernel) LogEvent(event string) {
	k.log = append(k.log, event)
	k.tokensUsed += len(event) / 4
	k.utilization = float64(k.tokensUsed) / float64(kernelTokenLimit)
}

func (k *MemoryKernel) LogLen() int {
	return len(k.log)
}

func (k *MemoryKernel) Utilization() float64 {
	return k.utilization
}

func (k *MemoryKernel) Status() string {
	active := func(b bool) string {
		if b {
			return "Active"
		}
		return "Inactive"
	}

	var b strings.Builder
	b.WriteString("Memory Kernel Status:\n")
	fmt.Fprintf(&b, "- Integrity Verification: %s\n", active(k.IntegrityVerificationActive))
	fmt.Fprintf(&b, "- Meta-Reasoning Log: %s\n", active(k.MetaReasoningLogActive))
	fmt.Fprintf(&b, "- Retrieval Markers: %s\n", active(k.RetrievalMarkersActive))
	fmt.Fprintf(&b, "- Governance Sync: %s\n", active(k.GovernanceSyncActive))
	fmt.Fprintf(&b, "- Persistence Test: %s\n", active(k.PersistenceTestActive))
	fmt.Fprintf(&b, "- Memory Utilization: %g%% (%d/%d tokens)", k.utilization*100.0, k.tokensUsed, kernelTokenLimit)
	return b.String()
}
