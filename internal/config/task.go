package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task names a supported inference task. A process serves exactly one.
type Task string

const (
	TaskSpeechRecognition  Task = "automatic-speech-recognition"
	TaskChat               Task = "chat"
	TaskQuestionAnswering  Task = "question-answering"
	TaskSummarization      Task = "summarization"
	TaskTextClassification Task = "text-classification"
	TaskTextToImage        Task = "text-to-image"
	TaskTextToSpeech       Task = "text-to-speech"
	TaskZeroShot           Task = "zero-shot-classification"
)

// Tasks lists every supported task in a stable order.
var Tasks = []Task{
	TaskSpeechRecognition,
	TaskChat,
	TaskQuestionAnswering,
	TaskSummarization,
	TaskTextClassification,
	TaskTextToImage,
	TaskTextToSpeech,
	TaskZeroShot,
}

// Valid reports whether t is a supported task.
func (t Task) Valid() bool {
	for _, k := range Tasks {
		if k == t {
			return true
		}
	}
	return false
}

// PipelineTask is the task name the inference backend knows the pipeline by.
// Chat runs on a text-generation pipeline.
func (t Task) PipelineTask() string {
	if t == TaskChat {
		return "text-generation"
	}
	return string(t)
}

// DefaultSeed is applied before every stochastic invocation.
const DefaultSeed int64 = 42

// TaskConfig is the per-deployment pipeline configuration.
type TaskConfig struct {
	Name     Task   `json:"name" yaml:"name" toml:"name" validate:"required,task_name"`
	Model    string `json:"model" yaml:"model" toml:"model" validate:"required"`
	Revision string `json:"revision" yaml:"revision" toml:"revision"`
	Device   string `json:"device" yaml:"device" toml:"device"`
	Seed     int64  `json:"seed" yaml:"seed" toml:"seed"`

	MaxNewTokens       int     `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens" validate:"gte=0"`
	DoSample           bool    `json:"do_sample" yaml:"do_sample" toml:"do_sample"`
	Temperature        float64 `json:"temperature" yaml:"temperature" toml:"temperature" validate:"gte=0"`
	MinLength          int     `json:"min_length" yaml:"min_length" toml:"min_length" validate:"gte=0"`
	TopK               TopK    `json:"top_k" yaml:"top_k" toml:"top_k"`
	MultiLabel         bool    `json:"multi_label" yaml:"multi_label" toml:"multi_label"`
	ReturnTopLabelOnly bool    `json:"return_top_label_only" yaml:"return_top_label_only" toml:"return_top_label_only"`
}

// DefaultTask returns the knob defaults. Name and Model have no default.
func DefaultTask() TaskConfig {
	return TaskConfig{
		Revision:           "main",
		Device:             "auto",
		Seed:               DefaultSeed,
		MaxNewTokens:       256,
		DoSample:           false,
		Temperature:        1.0,
		MinLength:          0,
		TopK:               TopKOf(1),
		MultiLabel:         false,
		ReturnTopLabelOnly: true,
	}
}

// TopK is either a positive count or the sentinel "all".
type TopK struct {
	N   int
	All bool
}

// TopKAll returns the "all" sentinel.
func TopKAll() TopK { return TopK{All: true} }

// TopKOf returns a fixed count.
func TopKOf(n int) TopK { return TopK{N: n} }

// Value is the form handed to the pipeline: an int, or nil for "all".
func (k TopK) Value() any {
	if k.All {
		return nil
	}
	return k.N
}

func (k TopK) String() string {
	if k.All {
		return "all"
	}
	return strconv.Itoa(k.N)
}

// Set parses "all" or a positive integer. It also makes TopK a pflag.Value.
func (k *TopK) Set(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		*k = TopKAll()
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("top_k must be an integer or \"all\": %q", s)
	}
	if n < 1 {
		return fmt.Errorf("top_k must be >= 1, got %d", n)
	}
	*k = TopKOf(n)
	return nil
}

// Type implements pflag.Value.
func (k *TopK) Type() string { return "int|all" }

func (k TopK) MarshalJSON() ([]byte, error) {
	if k.All {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(k.N)), nil
}

func (k *TopK) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		return k.Set(strconv.Itoa(n))
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("top_k must be an integer or \"all\"")
	}
	return k.Set(s)
}

func (k *TopK) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("top_k must be a scalar")
	}
	return k.Set(node.Value)
}

// MarshalText and UnmarshalText cover TOML, where top_k is written as a
// string: top_k = "5" or top_k = "all".
func (k TopK) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *TopK) UnmarshalText(b []byte) error { return k.Set(string(b)) }
