package task

import (
	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/envelope"
)

// summarization sends the raw text and returns the first summary_text.
type summarization struct {
	cfg config.TaskConfig
}

func (s summarization) decode(raw string) (capability.Call, error) {
	return capability.Call{
		Inputs: raw,
		Params: map[string]any{
			"min_length":     s.cfg.MinLength,
			"max_new_tokens": s.cfg.MaxNewTokens,
			"do_sample":      s.cfg.DoSample,
			"temperature":    s.cfg.Temperature,
		},
	}, nil
}

// encode emits result[0].summary_text, or "" when the result is empty, not a
// list, or lacks the field.
func (summarization) encode(res capability.Result, out *envelope.Response) error {
	var v any
	if err := res.Decode(&v); err != nil {
		return err
	}
	summary := ""
	if list, ok := v.([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			summary, _ = first["summary_text"].(string)
		}
	}
	out.AddString(envelope.DataPart, summary)
	return nil
}
