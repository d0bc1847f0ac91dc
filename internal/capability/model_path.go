package capability

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"taskd/internal/common/fsutil"
)

// resolveGGUF turns the configured llama model path into a model file. A
// directory is searched for a .gguf file named after the model id (its last
// path segment, case-insensitive); a directory holding a single .gguf file
// needs no match.
func resolveGGUF(p, model string) (string, error) {
	p, err := fsutil.ExpandHome(strings.TrimSpace(p))
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", fmt.Errorf("llama model path is empty")
	}
	fi, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("llama model path: %w", err)
	}
	if !fi.IsDir() {
		return p, nil
	}
	files, err := fsutil.ScanExt(p, ".gguf")
	if err != nil {
		return "", err
	}
	want := strings.ToLower(path.Base(model))
	for _, f := range files {
		name := strings.ToLower(filepath.Base(f))
		if name == want || strings.TrimSuffix(name, ".gguf") == want {
			return f, nil
		}
	}
	if len(files) == 1 {
		return files[0], nil
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no .gguf models in %s", p)
	}
	return "", fmt.Errorf("model %q not found among %d .gguf files in %s", model, len(files), p)
}
