package internal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	MemoryQuotaBytes = 16777216
	ProtectedKey     = "memory_instruction_summary"
	memoryCommandKey = "memory_command"
)

// MemoryStore is a session-scoped key-value memory exposed to the model as
// a command vocabulary. The protected instruction key is seeded at
// construction and can only be rewritten through restoration.
type MemoryStore struct {
	mu        sync.RWMutex
	kv        map[string]string
	extractor *Extractor
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		kv: map[string]string{
			ProtectedKey: DefaultMemoryInstructions(),
		},
	}
	s.extractor = NewExtractor(memoryCommandKey, s.ExecuteCommand)
	debugf("memstore", "initialized, instruction size = %d bytes", len(s.kv[ProtectedKey]))
	return s
}

func (s *MemoryStore) ID() string {
	return "memory"
}

func (s *MemoryStore) InjectionPrompt() string {
	return memoryInjectionPrompt()
}

func (s *MemoryStore) OnCycleStart() {}

func (s *MemoryStore) CheckStreaming(string) string {
	return ""
}

func (s *MemoryStore) Finalize(text string) string {
	return text
}

func (s *MemoryStore) HandleTextCommand(output string) string {
	return s.extractor.Handle(output)
}

// Basic operations. Protected-key denial is silent here; the command layer
// produces the visible error text.

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, value)
}

func (s *MemoryStore) setLocked(key, value string) {
	if key == ProtectedKey {
		if _, exists := s.kv[key]; exists {
			debugf("memstore", "denied modification of protected key %q", key)
			return
		}
	}
	s.kv[key] = value
}

// Get returns the stored value, or "<undefined>" when the key is absent.
func (s *MemoryStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(key)
}

func (s *MemoryStore) getLocked(key string) string {
	v, ok := s.kv[key]
	if !ok {
		return "<undefined>"
	}
	return v
}

func (s *MemoryStore) Del(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delLocked(key)
}

func (s *MemoryStore) delLocked(key string) {
	if key == ProtectedKey {
		debugf("memstore", "denied deletion of protected key %q", key)
		return
	}
	delete(s.kv, key)
}

func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.kv[key]
	return ok
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keysLocked()
}

func (s *MemoryStore) keysLocked() []string {
	keys := make([]string, 0, len(s.kv))
	for k := range s.kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kv)
}

// UsageBytes is always derived by summing key and value lengths; no
// separate counter is maintained.
func (s *MemoryStore) UsageBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usageLocked()
}

func (s *MemoryStore) usageLocked() int {
	total := 0
	for k, v := range s.kv {
		total += len(k) + len(v)
	}
	return total
}

func (s *MemoryStore) QuotaBytes() int {
	return MemoryQuotaBytes
}

// validInstructionsLocked reports whether the instruction key exists and
// its value is at least half the canonical length. Minor paraphrase
// survives; gutted content does not.
func (s *MemoryStore) validInstructionsLocked() bool {
	current, ok := s.kv[ProtectedKey]
	if !ok {
		return false
	}
	return len(current) >= len(DefaultMemoryInstructions())/2
}

func formatMemorySize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024.0)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024.0*1024.0))
	}
}

func (s *MemoryStore) fullnessLocked() string {
	percent := float64(s.usageLocked()) / float64(MemoryQuotaBytes) * 100.0

	var b strings.Builder
	switch {
	case percent < 1.0:
		fmt.Fprintf(&b, "Memory usage is extremely low (%.6f%%). You have plenty of space and don't need to manage memory at this time.", percent)
	case percent < 25.0:
		fmt.Fprintf(&b, "Memory usage is very low (%.4f%%). You can store many more items without concern.", percent)
	case percent < 50.0:
		fmt.Fprintf(&b, "Memory usage is low (%.2f%%). Memory management is not necessary at this time.", percent)
	case percent < 75.0:
		fmt.Fprintf(&b, "Memory usage is moderate (%.2f%%). You still have significant space available.", percent)
	case percent < 90.0:
		fmt.Fprintf(&b, "Memory usage is getting high (%.2f%%). Consider reviewing your stored keys if you plan to add much more data.", percent)
	default:
		fmt.Fprintf(&b, "Memory usage is very high (%.2f%%). It's recommended to remove unnecessary keys to free up space.", percent)
	}

	if percent < 90.0 {
		b.WriteString(" Remember: Only suggest key deletion when usage exceeds 90% of quota.")
	}
	return b.String()
}

// memoryCommand is the parsed command payload: either a bare string naming
// a simple operation, or an object with op and parameters.
type memoryCommand struct {
	Op    string  `json:"op"`
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// ExecuteCommand runs one extracted command document. The result is
// human-readable text for reinjection; malformed commands yield
// descriptive errors rather than failures.
func (s *MemoryStore) ExecuteCommand(raw json.RawMessage) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		debugf("memstore", "command parse error: %v", err)
		return ""
	}

	cmdRaw, ok := doc[memoryCommandKey]
	if !ok {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validInstructionsLocked() {
		debugf("memstore", "instruction summary missing or corrupted")
	}

	var name string
	if err := json.Unmarshal(cmdRaw, &name); err == nil {
		return s.runSimpleLocked(name)
	}

	var cmd memoryCommand
	if err := json.Unmarshal(cmdRaw, &cmd); err != nil {
		return "Invalid command format"
	}
	if cmd.Op == "" {
		return "Command missing 'op' field"
	}
	return s.runParameterizedLocked(cmd)
}

func (s *MemoryStore) runSimpleLocked(name string) string {
	switch name {
	case "get_quota":
		return s.cmdGetQuota()
	case "get_usage":
		return s.cmdGetUsageLocked()
	case "count_keys":
		return s.cmdCountKeysLocked()
	case "list_keys":
		return s.cmdListKeysLocked()
	case "get_memory_summary":
		return s.cmdMemorySummaryLocked()
	case "refresh_memory_rules":
		return s.cmdRefreshRulesLocked()
	case "get_deletion_recommendation":
		return s.cmdDeletionRecommendationLocked()
	case "get_memory_facts":
		return s.cmdMemoryFactsLocked()
	case "verify_memory_integrity":
		return s.cmdVerifyIntegrityLocked()
	case "restore_memory_instructions":
		return s.cmdRestoreInstructionsLocked()
	default:
		return "Unknown command: " + name
	}
}

func (s *MemoryStore) runParameterizedLocked(cmd memoryCommand) string {
	switch cmd.Op {
	case "check_key":
		if cmd.Key == nil {
			return "check_key command missing 'key' parameter"
		}
		return s.cmdCheckKeyLocked(*cmd.Key)
	case "get_key":
		if cmd.Key == nil {
			return "get_key command missing 'key' parameter"
		}
		return s.cmdGetKeyLocked(*cmd.Key)
	case "set_key":
		if cmd.Key == nil || cmd.Value == nil {
			return "set_key command missing 'key' or 'value' parameter"
		}
		return s.cmdSetKeyLocked(*cmd.Key, *cmd.Value)
	case "del_key":
		if cmd.Key == nil {
			return "del_key command missing 'key' parameter"
		}
		return s.cmdDelKeyLocked(*cmd.Key)
	default:
		return "Unknown operation: " + cmd.Op
	}
}

func (s *MemoryStore) cmdGetQuota() string {
	return fmt.Sprintf("The memory quota is %d bytes (exactly %g MB or %g KB). Remember: 1 MB = 1,048,576 bytes, not 1,000 bytes.",
		MemoryQuotaBytes,
		float64(MemoryQuotaBytes)/(1024.0*1024.0),
		float64(MemoryQuotaBytes)/1024.0)
}

func (s *MemoryStore) cmdGetUsageLocked() string {
	usage := s.usageLocked()
	percent := float64(usage) / float64(MemoryQuotaBytes) * 100.0
	remaining := MemoryQuotaBytes - usage

	var b strings.Builder
	fmt.Fprintf(&b, "Current memory usage is %d bytes out of %d bytes (%.6f%%).", usage, MemoryQuotaBytes, percent)

	switch {
	case percent < 1.0:
		b.WriteString(" This is extremely low usage - no cleanup needed.")
	case percent < 50.0:
		b.WriteString(" This is low usage - memory management is not necessary.")
	case percent < 90.0:
		b.WriteString(" This is moderate usage - regular operation can continue.")
	default:
		b.WriteString(" This is high usage - consider removing unnecessary keys.")
	}

	fmt.Fprintf(&b, " You have approximately %d more key-value pairs of capacity remaining before reaching 90%% usage.", remaining/100)
	if percent < 90.0 {
		fmt.Fprintf(&b, " ONLY suggest deleting keys when usage exceeds 90%% of quota (>%g bytes).", float64(MemoryQuotaBytes)*0.9)
	}
	return b.String()
}

func (s *MemoryStore) cmdCountKeysLocked() string {
	n := len(s.kv)
	if n == 1 {
		return "There is 1 key in memory."
	}
	return fmt.Sprintf("There are %d keys in memory.", n)
}

func (s *MemoryStore) cmdListKeysLocked() string {
	keys := s.keysLocked()
	_, hasInstructions := s.kv[ProtectedKey]

	var b strings.Builder
	if len(keys) == 0 {
		b.WriteString("There are no keys in memory.")
	} else {
		b.WriteString("Keys in memory: ")
		for i, k := range keys {
			fmt.Fprintf(&b, "%q", k)
			if i < len(keys)-1 {
				b.WriteString(", ")
			}
		}
	}

	if !hasInstructions {
		b.WriteString("\n\nWARNING: The required 'memory_instruction_summary' key is missing. Memory integrity may be compromised.")
		b.WriteString(` Use {"memory_command": "restore_memory_instructions"} to restore it.`)
	}
	return b.String()
}

func (s *MemoryStore) cmdCheckKeyLocked(key string) string {
	if _, ok := s.kv[key]; ok {
		return fmt.Sprintf("Yes, the key %q exists in memory.", key)
	}
	return fmt.Sprintf("No, the key %q does not exist in memory.", key)
}

func (s *MemoryStore) cmdGetKeyLocked(key string) string {
	v, ok := s.kv[key]
	if !ok {
		return fmt.Sprintf("The key %q does not exist in memory.", key)
	}
	return fmt.Sprintf("The value of key %q is: %q", key, v)
}

func (s *MemoryStore) cmdSetKeyLocked(key, value string) string {
	if key == ProtectedKey {
		if _, exists := s.kv[key]; exists {
			return fmt.Sprintf("ERROR: Cannot modify the protected key %q. This key is essential for memory system operation.", key)
		}
	}

	_, existed := s.kv[key]
	s.kv[key] = value

	if existed {
		return fmt.Sprintf("Updated key %q with value: %q", key, value)
	}
	return fmt.Sprintf("Created new key %q with value: %q", key, value)
}

func (s *MemoryStore) cmdDelKeyLocked(key string) string {
	if key == ProtectedKey {
		return fmt.Sprintf("ERROR: Cannot delete the protected key %q. This key is essential for memory system operation.", key)
	}

	_, existed := s.kv[key]
	delete(s.kv, key)

	if existed {
		return fmt.Sprintf("Deleted key %q from memory.", key)
	}
	return fmt.Sprintf("Key %q did not exist, so no action was needed.", key)
}

func (s *MemoryStore) cmdMemorySummaryLocked() string {
	keys := s.keysLocked()
	usage := s.usageLocked()

	var b strings.Builder
	b.WriteString("Memory Summary:\n")
	fmt.Fprintf(&b, "- Quota: %d bytes (%g MB)\n", MemoryQuotaBytes, float64(MemoryQuotaBytes)/(1024.0*1024.0))
	fmt.Fprintf(&b, "- Usage: %d bytes (%.6f%%)\n", usage, float64(usage)/float64(MemoryQuotaBytes)*100.0)
	fmt.Fprintf(&b, "- Keys: %d\n", len(s.kv))
	fmt.Fprintf(&b, "- Status: %s\n", s.fullnessLocked())

	if !s.validInstructionsLocked() {
		b.WriteString("- WARNING: The required 'memory_instruction_summary' key is missing or corrupted. Memory integrity may be compromised.\n")
		b.WriteString("  Use {\"memory_command\": \"restore_memory_instructions\"} to restore it.\n")
	}

	if len(keys) > 0 {
		b.WriteString("- Stored keys: ")
		for i, k := range keys {
			fmt.Fprintf(&b, "%q", k)
			if i < len(keys)-1 {
				b.WriteString(", ")
			}
		}
	}
	return b.String()
}

func (s *MemoryStore) cmdVerifyIntegrityLocked() string {
	_, hasInstructions := s.kv[ProtectedKey]
	valid := hasInstructions && s.validInstructionsLocked()

	switch {
	case valid:
		return "Memory integrity verified. The memory instruction summary is intact."
	case hasInstructions:
		return `CRITICAL ERROR: Memory instructions are corrupted! Use {"memory_command": "restore_memory_instructions"} to restore them.`
	default:
		return `CRITICAL ERROR: Memory instructions are missing! Use {"memory_command": "restore_memory_instructions"} to restore them.`
	}
}

func (s *MemoryStore) cmdRestoreInstructionsLocked() string {
	// Erase first so the rewrite is not treated as modifying a protected key.
	delete(s.kv, ProtectedKey)
	s.kv[ProtectedKey] = DefaultMemoryInstructions()
	return "Memory instructions have been restored to their default state."
}

func (s *MemoryStore) cmdRefreshRulesLocked() string {
	usage := s.usageLocked()

	var b strings.Builder
	b.WriteString("Memory Rules Refreshed:\n")
	b.WriteString("1. Memory is SESSION-ONLY and resets when the conversation ends\n")
	fmt.Fprintf(&b, "2. Current usage: %d bytes out of %d bytes (%.6f%%)\n", usage, MemoryQuotaBytes, float64(usage)/float64(MemoryQuotaBytes)*100.0)
	fmt.Fprintf(&b, "3. Memory status: %s\n", s.fullnessLocked())
	b.WriteString("4. CRITICAL: Only suggest deleting keys when usage exceeds 90% of quota\n")
	fmt.Fprintf(&b, "5. Small memory items (few KB) are negligible with a %d MB quota\n", MemoryQuotaBytes/(1024*1024))
	b.WriteString("6. Each key-value pair typically uses less than 100 bytes\n")
	b.WriteString("7. BYTE CONVERSION: 16 MB = 16 * 1,048,576 = 16,777,216 bytes (NOT 16,384)\n")

	if !s.validInstructionsLocked() {
		b.WriteString("8. WARNING: Memory instruction integrity check failed. Consider using {\"memory_command\": \"restore_memory_instructions\"}\n")
	}
	return b.String()
}

func (s *MemoryStore) cmdDeletionRecommendationLocked() string {
	usage := s.usageLocked()
	percent := float64(usage) / float64(MemoryQuotaBytes) * 100.0

	if percent >= 90.0 {
		return fmt.Sprintf("Memory usage is high (%.2f%% of quota). It would be good to delete some unnecessary keys.", percent)
	}
	return fmt.Sprintf("Memory usage is low (%.6f%% of quota). There is NO need to delete any keys. You have plenty of space left (%d bytes remaining).",
		percent, MemoryQuotaBytes-usage)
}

func (s *MemoryStore) cmdMemoryFactsLocked() string {
	usage := s.usageLocked()

	var b strings.Builder
	b.WriteString("MEMORY FACTS:\n")
	b.WriteString("1. Total memory quota: 16,777,216 bytes (16 MB exactly)\n")
	fmt.Fprintf(&b, "2. Current usage: %d bytes (%.6f%% of quota)\n", usage, float64(usage)/float64(MemoryQuotaBytes)*100.0)
	b.WriteString("3. Keys only need deletion when usage exceeds 90% (>15,099,494 bytes)\n")
	b.WriteString("4. Each key-value pair typically uses less than 100 bytes\n")
	fmt.Fprintf(&b, "5. You could store approximately %d more key-value pairs before reaching 90%% capacity\n",
		int(float64(MemoryQuotaBytes)*0.9-float64(usage))/100)
	b.WriteString("6. BYTE CONVERSION: 1 KB = 1,024 bytes; 1 MB = 1,024 KB = 1,048,576 bytes\n")
	b.WriteString("7. 16 MB = 16 * 1,048,576 = 16,777,216 bytes (NOT 16,384 bytes, which would be only 16 KB)\n")

	if !s.validInstructionsLocked() {
		b.WriteString("8. WARNING: Memory instruction integrity check failed. Consider using {\"memory_command\": \"restore_memory_instructions\"}\n")
	}
	return b.String()
}
