package task

import (
	"encoding/json"

	"taskd/internal/capability"
	"taskd/internal/envelope"
)

// speechRecognition takes a JSON array of audio samples and returns the
// pipeline result as JSON.
type speechRecognition struct{}

func (speechRecognition) decode(raw string) (capability.Call, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return capability.Call{}, errDecode("waveform must be a JSON array of numbers: %v", err)
	}
	list, ok := v.([]any)
	if !ok {
		return capability.Call{}, errDecode("waveform must be a JSON array of numbers")
	}
	// multi-channel input is flattened like any other nested list
	samples, err := flattenSamples(list, nil)
	if err != nil {
		return capability.Call{}, errDecode("%v", err)
	}
	waveform := make([]float32, len(samples))
	for i, s := range samples {
		waveform[i] = float32(s)
	}
	return capability.Call{Inputs: waveform}, nil
}

func (speechRecognition) encode(res capability.Result, out *envelope.Response) error {
	return encodeFullResult(res, out)
}

// encodeFullResult re-serializes a JSON result unchanged into the "data" part.
func encodeFullResult(res capability.Result, out *envelope.Response) error {
	var v any
	if err := res.Decode(&v); err != nil {
		return err
	}
	return out.AddJSON(envelope.DataPart, v)
}
