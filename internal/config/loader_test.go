package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `server:
  addr: ":9999"
task:
  name: text-classification
  model: distilbert-base-uncased-finetuned-sst-2-english
  top_k: all
backend:
  kind: bridge
  bridge:
    command: python3 -u worker.py
`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":9999" || cfg.Task.Name != TaskTextClassification || !cfg.Task.TopK.All {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// unspecified knobs keep their defaults
	if cfg.Task.Revision != "main" || cfg.Task.Device != "auto" || cfg.Task.Seed != DefaultSeed || !cfg.Task.ReturnTopLabelOnly {
		t.Fatalf("defaults lost: %+v", cfg.Task)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"task":{"name":"chat","model":"m","max_new_tokens":64,"do_sample":true,"temperature":0.7,"top_k":5},"backend":{"kind":"remote","remote":{"url":"http://localhost:9000/predict"}}}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Task.MaxNewTokens != 64 || !cfg.Task.DoSample || cfg.Task.Temperature != 0.7 || cfg.Task.TopK.N != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg.Task)
	}
	if cfg.Backend.Remote.URL != "http://localhost:9000/predict" {
		t.Fatalf("remote url: %q", cfg.Backend.Remote.URL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", `[task]
name = "zero-shot-classification"
model = "facebook/bart-large-mnli"
multi_label = true
return_top_label_only = false
top_k = "3"

[backend]
kind = "bridge"

[backend.bridge]
command = "worker"
`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Task.Name != TaskZeroShot || !cfg.Task.MultiLabel || cfg.Task.ReturnTopLabelOnly || cfg.Task.TopK.N != 3 {
		t.Fatalf("unexpected cfg: %+v", cfg.Task)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}
