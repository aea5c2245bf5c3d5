package internal

import (
	"encoding/json"
	"strings"
)

// Composite fans a single hook slot out to several hooks. Prompts and
// command responses are concatenated, finalize checks are chained in
// order, streaming checks stop at the first warning.
type Composite struct {
	hooks []Hook
}

func NewComposite(hooks ...Hook) *Composite {
	return &Composite{hooks: hooks}
}

func (c *Composite) ID() string {
	ids := make([]string, len(c.hooks))
	for i, h := range c.hooks {
		ids[i] = h.ID()
	}
	return "composite:[" + strings.Join(ids, ",") + "]"
}

func (c *Composite) InjectionPrompt() string {
	var b strings.Builder
	for _, h := range c.hooks {
		if prompt := h.InjectionPrompt(); prompt != "" {
			b.WriteString(prompt)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Composite) OnCycleStart() {
	for _, h := range c.hooks {
		h.OnCycleStart()
	}
}

func (c *Composite) HandleTextCommand(output string) string {
	var b strings.Builder
	for _, h := range c.hooks {
		if resp := h.HandleTextCommand(output); resp != "" {
			b.WriteString(resp)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Composite) ExecuteCommand(cmd json.RawMessage) string {
	for _, h := range c.hooks {
		if resp := h.ExecuteCommand(cmd); resp != "" {
			return resp
		}
	}
	return ""
}

// CheckStreaming returns the first warning raised by any hook.
func (c *Composite) CheckStreaming(partial string) string {
	for _, h := range c.hooks {
		if warning := h.CheckStreaming(partial); warning != "" {
			return warning
		}
	}
	return ""
}

// Finalize chains each hook's check; a replacement from one hook is what
// the next hook sees.
func (c *Composite) Finalize(text string) string {
	for _, h := range c.hooks {
		text = h.Finalize(text)
	}
	return text
}
