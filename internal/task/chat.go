package task

import (
	"encoding/json"

	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/envelope"
)

// chat passes a role/content message list to a text-generation pipeline.
// Content is forwarded as given, so multimodal content lists reach the
// pipeline untouched.
type chat struct {
	cfg config.TaskConfig
}

func (c chat) decode(raw string) (capability.Call, error) {
	var messages []map[string]any
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return capability.Call{}, errDecode("messages must be a JSON array of objects: %v", err)
	}
	if messages == nil {
		return capability.Call{}, errDecode("messages must be a JSON array of objects")
	}
	for i, m := range messages {
		if role, _ := m["role"].(string); role == "" {
			return capability.Call{}, errDecode("message %d has no role", i)
		}
	}
	return capability.Call{Inputs: messages, Params: c.params()}, nil
}

func (c chat) params() map[string]any {
	return map[string]any{
		"max_new_tokens": c.cfg.MaxNewTokens,
		"do_sample":      c.cfg.DoSample,
		"temperature":    c.cfg.Temperature,
	}
}

func (chat) encode(res capability.Result, out *envelope.Response) error {
	return encodeFullResult(res, out)
}
