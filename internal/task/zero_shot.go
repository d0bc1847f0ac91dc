package task

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/envelope"
	"taskd/pkg/types"
)

// zeroShot classifies text against request-supplied labels. Input is
// [text, label1, label2, ...].
type zeroShot struct {
	cfg config.TaskConfig
	log zerolog.Logger
}

func (z zeroShot) decode(raw string) (capability.Call, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return capability.Call{}, errDecode("expected a JSON array of strings [text, label, ...]: %v", err)
	}
	if len(items) == 0 {
		return capability.Call{}, errDecode("expected a JSON array of strings [text, label, ...]")
	}
	if len(items) < 2 {
		return capability.Call{}, ValidationError{Msg: "At least one candidate label required for zero-shot"}
	}
	return capability.Call{
		Inputs: items[0],
		Params: map[string]any{
			"candidate_labels": items[1:],
			"multi_label":      z.cfg.MultiLabel,
		},
	}, nil
}

// encode emits either the best label as plain text or the whole result.
// The best label is labels[0]: pipelines return labels by descending score.
func (z zeroShot) encode(res capability.Result, out *envelope.Response) error {
	if !z.cfg.ReturnTopLabelOnly {
		return encodeFullResult(res, out)
	}
	var r types.ZeroShotResult
	if err := res.Decode(&r); err != nil {
		return err
	}
	if len(r.Labels) == 0 {
		return errors.New("zero-shot result has no labels")
	}
	if !sort.SliceIsSorted(r.Scores, func(i, j int) bool { return r.Scores[i] > r.Scores[j] }) {
		z.log.Warn().Strs("labels", r.Labels).Floats64("scores", r.Scores).Msg("zero-shot scores not in descending order")
	}
	out.AddString(envelope.DataPart, r.Labels[0])
	return nil
}
