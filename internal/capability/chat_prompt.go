package capability

import (
	"fmt"
	"strings"
)

// chatPrompt renders role/content messages into a plain prompt for runtimes
// without a chat template, ending with an open assistant turn.
func chatPrompt(inputs any) (string, error) {
	msgs, ok := inputs.([]map[string]any)
	if !ok {
		return "", fmt.Errorf("chat input must be a list of messages, got %T", inputs)
	}
	var sb strings.Builder
	for i, m := range msgs {
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		if role == "" {
			return "", fmt.Errorf("message %d has no role", i)
		}
		fmt.Fprintf(&sb, "<|%s|>\n%s\n", role, content)
	}
	sb.WriteString("<|assistant|>\n")
	return sb.String(), nil
}

// chatResult mirrors the text-generation pipeline output for chat input: the
// conversation with the assistant reply appended.
func chatResult(inputs []map[string]any, reply string) []map[string]any {
	conv := make([]map[string]any, 0, len(inputs)+1)
	conv = append(conv, inputs...)
	conv = append(conv, map[string]any{"role": "assistant", "content": reply})
	return []map[string]any{{"generated_text": conv}}
}
