package task

import (
	"taskd/internal/capability"
	"taskd/internal/envelope"
)

// textClassification labels plain text. top_k is fixed at pipeline
// construction, see SpecFor.
type textClassification struct{}

func (textClassification) decode(raw string) (capability.Call, error) {
	return capability.Call{Inputs: raw}, nil
}

// encode unwraps a nested [[...]] result to its first inner list.
func (textClassification) encode(res capability.Result, out *envelope.Response) error {
	var v any
	if err := res.Decode(&v); err != nil {
		return err
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		if inner, ok := list[0].([]any); ok {
			v = inner
		}
	}
	return out.AddJSON(envelope.DataPart, v)
}
