//go:build llama

package capability

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"taskd/internal/config"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaPipeline owns the loaded model and serves the chat task in-process.
type llamaPipeline struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
	seed    *int64
}

func newLlama(spec Spec, cfg config.LlamaConfig) (Pipeline, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New("llama model path is empty")
	}
	if spec.PipelineTask != "text-generation" {
		return nil, errors.New("llama backend only serves text-generation, not " + spec.PipelineTask)
	}
	m, err := llama.New(cfg.ModelPath, llama.SetContext(zn(cfg.ContextSize, 2048)))
	if err != nil {
		return nil, err
	}
	return &llamaPipeline{model: m, threads: cfg.Threads}, nil
}

func (p *llamaPipeline) Seed(seed int64) {
	p.mu.Lock()
	p.seed = &seed
	p.mu.Unlock()
}

func (p *llamaPipeline) Invoke(ctx context.Context, call Call) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model == nil {
		return Result{}, ErrDependencyUnavailable("llama model not initialized")
	}
	prompt, err := chatPrompt(call.Inputs)
	if err != nil {
		return Result{}, err
	}
	// stop generating once the caller goes away
	p.model.SetTokenCallback(func(string) bool { return ctx.Err() == nil })
	text, err := p.model.Predict(prompt, predictOptions(call.Params, p.threads, p.seed)...)
	p.seed = nil
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, ErrPipeline(err.Error())
	}
	b, err := json.Marshal(chatResult(call.Inputs.([]map[string]any), strings.TrimSpace(text)))
	if err != nil {
		return Result{}, err
	}
	return Result{Body: b, ContentType: "application/json"}, nil
}

func (p *llamaPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		p.model.Free()
		p.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions maps chat control parameters onto go-llama.cpp options.
// Greedy decoding (do_sample=false) is temperature 0.
func predictOptions(params map[string]any, threads int, seed *int64) []llama.PredictOption {
	maxTokens, _ := params["max_new_tokens"].(int)
	temp, _ := params["temperature"].(float64)
	doSample, _ := params["do_sample"].(bool)
	if !doSample {
		temp = 0
	}
	po := []llama.PredictOption{
		llama.SetTokens(zn(maxTokens, llama.DefaultOptions.Tokens)),
		llama.SetThreads(zn(threads, 1)),
		llama.SetTemperature(float32(temp)),
		llama.SetStopWords("<|user|>", "<|system|>"),
	}
	if seed != nil {
		po = append(po, llama.SetSeed(int(*seed)))
	}
	return po
}
