package config

// Backend kinds.
const (
	BackendBridge = "bridge"
	BackendRemote = "remote"
	BackendLlama  = "llama"
)

// BackendConfig selects and configures the inference capability.
type BackendConfig struct {
	Kind   string       `json:"kind" yaml:"kind" toml:"kind" validate:"required,backend_kind"`
	Bridge BridgeConfig `json:"bridge" yaml:"bridge" toml:"bridge"`
	Remote RemoteConfig `json:"remote" yaml:"remote" toml:"remote"`
	Llama  LlamaConfig  `json:"llama" yaml:"llama" toml:"llama"`
}

// BridgeConfig runs a long-lived worker process that hosts the pipeline.
type BridgeConfig struct {
	// Command line of the worker, e.g. "python3 -u worker.py".
	Command string   `json:"command" yaml:"command" toml:"command"`
	Env     []string `json:"env" yaml:"env" toml:"env"`
	Dir     string   `json:"dir" yaml:"dir" toml:"dir"`
	// StartTimeoutSeconds bounds model loading; 0 waits indefinitely.
	StartTimeoutSeconds int `json:"start_timeout_seconds" yaml:"start_timeout_seconds" toml:"start_timeout_seconds" validate:"gte=0"`
}

// RemoteConfig points at an HTTP pipeline server.
type RemoteConfig struct {
	URL     string            `json:"url" yaml:"url" toml:"url" validate:"omitempty,url"`
	Headers map[string]string `json:"headers" yaml:"headers" toml:"headers"`
}

// LlamaConfig configures the in-process llama.cpp text generator.
type LlamaConfig struct {
	ModelPath   string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ContextSize int    `json:"context_size" yaml:"context_size" toml:"context_size" validate:"gte=0"`
	Threads     int    `json:"threads" yaml:"threads" toml:"threads" validate:"gte=0"`
}
