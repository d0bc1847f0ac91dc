package task

import (
	"encoding/json"
	"fmt"

	"taskd/internal/capability"
	"taskd/internal/envelope"
	"taskd/pkg/types"
)

// questionAnswering extracts an answer span from a context.
type questionAnswering struct{}

func (questionAnswering) decode(raw string) (capability.Call, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return capability.Call{}, errDecode("expected a JSON object with question and context: %v", err)
	}
	var in types.QuestionAnsweringInput
	required := []struct {
		key string
		dst *string
	}{{"question", &in.Question}, {"context", &in.Context}}
	for _, r := range required {
		v, ok := fields[r.key]
		if !ok {
			return capability.Call{}, errDecode("missing key %q", r.key)
		}
		if err := json.Unmarshal(v, r.dst); err != nil {
			return capability.Call{}, errDecode("%s must be a string", r.key)
		}
	}
	return capability.Call{Inputs: in}, nil
}

// encode emits the answer text; a result without one yields "".
func (questionAnswering) encode(res capability.Result, out *envelope.Response) error {
	var v any
	if err := res.Decode(&v); err != nil {
		return err
	}
	answer := ""
	if m, ok := v.(map[string]any); ok {
		switch a := m["answer"].(type) {
		case nil:
		case string:
			answer = a
		default:
			answer = fmt.Sprint(a)
		}
	}
	out.AddString(envelope.DataPart, answer)
	return nil
}
