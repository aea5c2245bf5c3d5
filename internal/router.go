package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Router intercepts model responses on their way to the client. Streaming
// chunks are accumulated so the hook can inspect the full text; on finish
// the hook may veto the response and embedded commands are extracted and
// answered in-band as extra chunks. Batch responses are edited in place.
type Router struct {
	hook    Hook
	buf     strings.Builder
	notices func(string)
}

// NewRouter wires a hook into the response path. notices receives
// streaming rule warnings out of band and may be nil.
func NewRouter(hook Hook, notices func(string)) *Router {
	return &Router{hook: hook, notices: notices}
}

type streamDelta struct {
	Content string `json:"content"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason any         `json:"finish_reason"`
}

type streamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
}

// ProcessChunk takes the JSON payload of one SSE data line and returns
// the frames to emit for it. Content deltas are accumulated; streaming
// rule warnings are reported through the notices callback rather than
// spliced into the stream.
func (r *Router) ProcessChunk(data string) string {
	if delta, ok := chunkDelta(data); ok {
		r.buf.WriteString(delta)

		if warning := r.hook.CheckStreaming(r.buf.String()); warning != "" {
			debugf("router", "streaming check: %s", warning)
			if r.notices != nil {
				r.notices(warning)
			}
		}
	}
	return frame(data)
}

// Finish ends the stream: the hook may replace the accumulated response,
// embedded commands are extracted and answered as an extra chunk, and the
// terminator is always emitted. The accumulator is reset for the next
// response.
func (r *Router) Finish() string {
	accumulated := r.buf.String()
	r.buf.Reset()

	var out strings.Builder

	if finalized := r.hook.Finalize(accumulated); finalized != accumulated {
		replacement, err := json.Marshal(streamChunk{
			Choices: []streamChoice{{Delta: streamDelta{Content: finalized}}},
		})
		if err == nil {
			out.WriteString(frame(string(replacement)))
		}
	}

	if resp := r.hook.HandleTextCommand(accumulated); resp != "" {
		chunk, err := json.Marshal(streamChunk{
			ID:      "hook_response",
			Object:  "chat.completion.chunk",
			Created: time.Now().Unix(),
			Model:   "hook_system",
			Choices: []streamChoice{{
				Index: 0,
				Delta: streamDelta{Content: "\n\n" + resp},
			}},
		})
		if err == nil {
			out.WriteString(frame(string(chunk)))
		}
	}

	out.WriteString("data: [DONE]\n\n")
	return out.String()
}

// ProcessBatch runs the hook over a complete (non-streaming) response
// body. A finalize veto replaces the content; command responses are
// appended to it. The edited body is re-marshaled.
func (r *Router) ProcessBatch(body []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	content, setContent, ok := batchContent(doc)
	if !ok {
		return body, nil
	}

	if finalized := r.hook.Finalize(content); finalized != content {
		content = finalized
		setContent(content)
	}

	if resp := r.hook.HandleTextCommand(content); resp != "" {
		setContent(content + "\n" + resp)
	}

	edited, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return edited, nil
}

// chunkDelta extracts choices[0].delta.content from a streaming chunk.
// Chunks are recognized by object == "chat.completion.chunk", either at
// the top level or as the first element of an array payload.
func chunkDelta(data string) (string, bool) {
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return "", false
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		arr, isArr := doc.([]any)
		if !isArr || len(arr) == 0 {
			return "", false
		}
		obj, ok = arr[0].(map[string]any)
		if !ok {
			return "", false
		}
	}

	if kind, _ := obj["object"].(string); kind != "chat.completion.chunk" {
		return "", false
	}

	choices, _ := obj["choices"].([]any)
	if len(choices) == 0 {
		return "", true
	}
	choice, _ := choices[0].(map[string]any)
	delta, _ := choice["delta"].(map[string]any)
	content, _ := delta["content"].(string)
	return content, true
}

// batchContent locates the response text in a batch body, checking the
// top-level content and text fields before choices[0].message.content.
// The returned setter writes back at the same location.
func batchContent(doc map[string]any) (string, func(string), bool) {
	if content, ok := doc["content"].(string); ok {
		return content, func(s string) { doc["content"] = s }, true
	}
	if text, ok := doc["text"].(string); ok {
		return text, func(s string) { doc["text"] = s }, true
	}

	choices, _ := doc["choices"].([]any)
	if len(choices) == 0 {
		return "", nil, false
	}
	choice, _ := choices[0].(map[string]any)
	message, _ := choice["message"].(map[string]any)
	if message == nil {
		return "", nil, false
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", nil, false
	}
	return content, func(s string) { message["content"] = s }, true
}

func frame(data string) string {
	return "data: " + data + "\n\n"
}
