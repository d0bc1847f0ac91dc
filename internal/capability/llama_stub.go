//go:build !llama

package capability

// This file provides a no-CGO stub for the llama backend. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds CGO-free.

import "taskd/internal/config"

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

func newLlama(spec Spec, cfg config.LlamaConfig) (Pipeline, error) {
	// Fail fast: llama runtime not available in this build.
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
