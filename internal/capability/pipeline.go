// Package capability defines the inference capability a task handler calls,
// and the backends that provide it. A Pipeline is opened once per process and
// shared by every request; model computation happens behind it.
package capability

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"strings"
)

// Spec identifies the pipeline to construct.
type Spec struct {
	Task         string         `json:"task"`
	PipelineTask string         `json:"pipeline_task"`
	Model        string         `json:"model"`
	Revision     string         `json:"revision,omitempty"`
	Device       string         `json:"device,omitempty"`
	Options      map[string]any `json:"options,omitempty"`
}

// Call is one invocation: the decoded input plus task-fixed control parameters.
type Call struct {
	Inputs any
	Params map[string]any
}

// Result is the raw pipeline output. Body is JSON unless ContentType says
// otherwise (text-to-image returns encoded image bytes).
type Result struct {
	Body        []byte
	ContentType string
}

// IsJSON reports whether Body should be parsed as JSON. An empty content type
// counts as JSON.
func (r Result) IsJSON() bool {
	if r.ContentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Decode unmarshals a JSON result into v.
func (r Result) Decode(v any) error {
	if !r.IsJSON() {
		return errors.New("pipeline returned non-JSON result: " + r.ContentType)
	}
	return json.Unmarshal(r.Body, v)
}

// Pipeline is the inference capability.
//
// Implementations need not be reentrant; callers serialize Seed and Invoke.
//
// Result shape contracts per task are owned by the task handlers. One of them
// is a precondition on every backend: zero-shot classification results list
// "labels" (and the parallel "scores") in descending score order, so the first
// label is the best one.
type Pipeline interface {
	Invoke(ctx context.Context, call Call) (Result, error)
	Close() error
}

// Seeder is implemented by pipelines that accept a deterministic seed. The
// seed applies to the next Invoke.
type Seeder interface {
	Seed(seed int64)
}

// Exited returns a channel that is closed when the process backing p exits.
// Pipelines without a backing process return nil, which never fires.
func Exited(p Pipeline) <-chan struct{} {
	if x, ok := p.(interface{ Done() <-chan struct{} }); ok {
		return x.Done()
	}
	return nil
}
