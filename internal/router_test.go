package internal

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedHook lets router tests control each interception point.
type scriptedHook struct {
	checkStreaming func(string) string
	finalize       func(string) string
	handleText     func(string) string
}

func (h *scriptedHook) ID() string              { return "scripted" }
func (h *scriptedHook) InjectionPrompt() string { return "" }
func (h *scriptedHook) OnCycleStart()           {}

func (h *scriptedHook) HandleTextCommand(output string) string {
	if h.handleText == nil {
		return ""
	}
	return h.handleText(output)
}

func (h *scriptedHook) ExecuteCommand(json.RawMessage) string { return "" }

func (h *scriptedHook) CheckStreaming(partial string) string {
	if h.checkStreaming == nil {
		return ""
	}
	return h.checkStreaming(partial)
}

func (h *scriptedHook) Finalize(text string) string {
	if h.finalize == nil {
		return text
	}
	return h.finalize(text)
}

func chunkJSON(content string) string {
	return `{"object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":` +
		string(mustJSON(content)) + `},"finish_reason":null}]}`
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func TestRouterPassesChunksThrough(t *testing.T) {
	r := NewRouter(&scriptedHook{}, nil)

	payload := chunkJSON("Hello")
	out := r.ProcessChunk(payload)
	assert.Equal(t, "data: "+payload+"\n\n", out)
}

func TestRouterAccumulatesDeltas(t *testing.T) {
	var seen string
	hook := &scriptedHook{
		handleText: func(text string) string {
			seen = text
			return ""
		},
	}
	r := NewRouter(hook, nil)

	r.ProcessChunk(chunkJSON("Hello, "))
	r.ProcessChunk(chunkJSON("world!"))
	out := r.Finish()

	assert.Equal(t, "Hello, world!", seen)
	assert.Equal(t, "data: [DONE]\n\n", out)
}

func TestRouterChunkInArrayPayload(t *testing.T) {
	var seen string
	hook := &scriptedHook{handleText: func(text string) string { seen = text; return "" }}
	r := NewRouter(hook, nil)

	r.ProcessChunk(`[{"object":"chat.completion.chunk","choices":[{"delta":{"content":"abc"}}]}]`)
	r.Finish()
	assert.Equal(t, "abc", seen)
}

func TestRouterIgnoresNonChunkPayloads(t *testing.T) {
	var seen string
	hook := &scriptedHook{handleText: func(text string) string { seen = text; return "" }}
	r := NewRouter(hook, nil)

	payload := `{"object":"something.else","choices":[{"delta":{"content":"nope"}}]}`
	out := r.ProcessChunk(payload)
	assert.Equal(t, "data: "+payload+"\n\n", out)

	r.Finish()
	assert.Equal(t, "", seen)
}

func TestRouterEmitsHookResponseChunk(t *testing.T) {
	hook := &scriptedHook{
		handleText: func(string) string { return "Command executed." },
	}
	r := NewRouter(hook, nil)

	r.ProcessChunk(chunkJSON("please run the command"))
	out := r.Finish()

	frames := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, frames, 2)

	var chunk streamChunk
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[0], "data: ")), &chunk))
	assert.Equal(t, "hook_response", chunk.ID)
	assert.Equal(t, "chat.completion.chunk", chunk.Object)
	assert.Equal(t, "hook_system", chunk.Model)
	require.Len(t, chunk.Choices, 1)
	assert.Equal(t, "\n\nCommand executed.", chunk.Choices[0].Delta.Content)

	assert.Equal(t, "data: [DONE]", frames[1])
}

func TestRouterEmitsReplacementOnVeto(t *testing.T) {
	hook := &scriptedHook{
		finalize: func(string) string { return "Blocked." },
	}
	r := NewRouter(hook, nil)

	r.ProcessChunk(chunkJSON("offending text that got vetoed"))
	out := r.Finish()

	require.Contains(t, out, `"content":"Blocked."`)
	assert.True(t, strings.HasSuffix(out, "data: [DONE]\n\n"))
}

func TestRouterBufferResetsBetweenResponses(t *testing.T) {
	var texts []string
	hook := &scriptedHook{
		handleText: func(text string) string {
			texts = append(texts, text)
			return ""
		},
	}
	r := NewRouter(hook, nil)

	r.ProcessChunk(chunkJSON("first"))
	r.Finish()
	r.ProcessChunk(chunkJSON("second"))
	r.Finish()

	require.Len(t, texts, 2)
	assert.Equal(t, "first", texts[0])
	assert.Equal(t, "second", texts[1])
}

func TestRouterStreamingNotices(t *testing.T) {
	hook := &scriptedHook{
		checkStreaming: func(partial string) string {
			if len(partial) > 5 {
				return "warning text"
			}
			return ""
		},
	}

	var notices []string
	r := NewRouter(hook, func(msg string) { notices = append(notices, msg) })

	r.ProcessChunk(chunkJSON("abc"))
	assert.Empty(t, notices)

	r.ProcessChunk(chunkJSON("defgh"))
	require.Len(t, notices, 1)
	assert.Equal(t, "warning text", notices[0])
}

func TestRouterBatchAppendsCommandResponse(t *testing.T) {
	hook := &scriptedHook{
		handleText: func(string) string { return "Stored." },
	}
	r := NewRouter(hook, nil)

	edited, err := r.ProcessBatch([]byte(`{"content":"original text"}`))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(edited, &doc))
	assert.Equal(t, "original text\nStored.", doc["content"])
}

func TestRouterBatchChoicesMessageContent(t *testing.T) {
	hook := &scriptedHook{
		handleText: func(string) string { return "Done." },
	}
	r := NewRouter(hook, nil)

	body := `{"choices":[{"message":{"role":"assistant","content":"answer"}}]}`
	edited, err := r.ProcessBatch([]byte(body))
	require.NoError(t, err)

	var doc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(edited, &doc))
	assert.Equal(t, "answer\nDone.", doc.Choices[0].Message.Content)
}

func TestRouterBatchFinalizeVetoWritesBack(t *testing.T) {
	hook := &scriptedHook{
		finalize: func(string) string { return "Replaced." },
	}
	r := NewRouter(hook, nil)

	edited, err := r.ProcessBatch([]byte(`{"text":"vetoed body"}`))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(edited, &doc))
	assert.Equal(t, "Replaced.", doc["text"])
}

func TestRouterBatchNoContentField(t *testing.T) {
	r := NewRouter(&scriptedHook{}, nil)

	body := []byte(`{"usage":{"total_tokens":5}}`)
	edited, err := r.ProcessBatch(body)
	require.NoError(t, err)
	assert.Equal(t, body, edited)
}

func TestRouterBatchInvalidJSON(t *testing.T) {
	r := NewRouter(&scriptedHook{}, nil)

	_, err := r.ProcessBatch([]byte("not json"))
	assert.Error(t, err)
}
