//go:build !llama

package capability

import (
	"context"
	"testing"

	"taskd/internal/config"
)

func TestOpen_LlamaStubUnavailable(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "m.gguf")
	cfg := config.BackendConfig{Kind: config.BackendLlama, Llama: config.LlamaConfig{ModelPath: dir}}
	_, err := Open(context.Background(), testSpec(), cfg, nopLogger())
	if !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if LlamaBuilt() {
		t.Fatalf("stub build should report llama not built")
	}
}
