package task

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/envelope"
)

// fakePipeline records calls and returns a canned result.
type fakePipeline struct {
	mu     sync.Mutex
	result capability.Result
	err    error
	panics bool
	calls  []capability.Call
	seeds  []int64
}

func (f *fakePipeline) Invoke(_ context.Context, call capability.Call) (capability.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.panics {
		panic("model exploded")
	}
	return f.result, f.err
}

func (f *fakePipeline) Seed(seed int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeds = append(f.seeds, seed)
}

func (f *fakePipeline) Close() error { return nil }

func (f *fakePipeline) invocations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func jsonResult(s string) capability.Result {
	return capability.Result{Body: []byte(s), ContentType: "application/json"}
}

func failing() *fakePipeline {
	return &fakePipeline{err: capability.ErrPipeline("CUDA out of memory")}
}

func taskConfig(t config.Task) config.TaskConfig {
	cfg := config.DefaultTask()
	cfg.Name = t
	cfg.Model = "test/model"
	return cfg
}

func newHandler(t config.Task, pipe capability.Pipeline) Handler {
	h, err := New(taskConfig(t), pipe, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return h
}

func process(h Handler, payload string) *envelope.Response {
	return h.Process(context.Background(), envelope.FromBytes([]byte(payload)))
}

// validInput is a well-formed payload for each task.
var validInput = map[config.Task]string{
	config.TaskSpeechRecognition:  `[0.0, 0.5, -0.5]`,
	config.TaskChat:               `[{"role":"user","content":"hi"}]`,
	config.TaskQuestionAnswering:  `{"question":"q","context":"c"}`,
	config.TaskSummarization:      `a long text`,
	config.TaskTextClassification: `great movie`,
	config.TaskTextToImage:        `a red square`,
	config.TaskTextToSpeech:       `hello`,
	config.TaskZeroShot:           `["text","label1","label2"]`,
}

