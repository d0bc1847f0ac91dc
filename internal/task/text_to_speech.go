package task

import (
	"errors"
	"fmt"

	"taskd/internal/capability"
	"taskd/internal/envelope"
)

// textToSpeech synthesizes audio and returns the result with "audio" as a
// flat list of samples. Other fields (sampling_rate) pass through.
type textToSpeech struct{}

func (textToSpeech) decode(raw string) (capability.Call, error) {
	return capability.Call{Inputs: raw}, nil
}

func (textToSpeech) encode(res capability.Result, out *envelope.Response) error {
	var result map[string]any
	if err := res.Decode(&result); err != nil {
		return fmt.Errorf("decode speech result: %w", err)
	}
	audio, ok := result["audio"]
	if !ok {
		return errors.New("speech result has no audio")
	}
	samples, err := flattenSamples(audio, nil)
	if err != nil {
		return err
	}
	result["audio"] = samples
	return out.AddJSON(envelope.DataPart, result)
}

// flattenSamples appends every number in a nested list to dst in row-major
// order.
func flattenSamples(v any, dst []float64) ([]float64, error) {
	switch x := v.(type) {
	case float64:
		return append(dst, x), nil
	case []any:
		for _, e := range x {
			var err error
			if dst, err = flattenSamples(e, dst); err != nil {
				return nil, err
			}
		}
		if dst == nil {
			dst = []float64{}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("audio sample has type %T, want number", v)
	}
}
