package capability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"taskd/internal/config"
)

// The test binary doubles as a bridge worker when TASKD_HELPER_WORKER=1.
func TestHelperWorker(t *testing.T) {
	if os.Getenv("TASKD_HELPER_WORKER") != "1" {
		return
	}
	runHelperWorker(os.Getenv("TASKD_HELPER_MODE"))
	os.Exit(0)
}

func runHelperWorker(mode string) {
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 1<<20), 1<<24)
	out := json.NewEncoder(os.Stdout)
	fmt.Fprintln(os.Stderr, "helper worker up")
	for in.Scan() {
		var req map[string]any
		if err := json.Unmarshal(in.Bytes(), &req); err != nil {
			_ = out.Encode(map[string]any{"error": err.Error()})
			continue
		}
		id := req["id"]
		switch req["op"] {
		case "init":
			if mode == "init-fail" {
				_ = out.Encode(map[string]any{"id": id, "error": "model not found"})
				continue
			}
			_ = out.Encode(map[string]any{"id": id, "ready": true})
		case "invoke":
			switch req["inputs"] {
			case "fail":
				_ = out.Encode(map[string]any{"id": id, "error": "CUDA out of memory"})
			case "image":
				_ = out.Encode(map[string]any{"id": id, "image": []byte{1, 2, 3}, "content_type": "image/png"})
			case "crash":
				os.Exit(3)
			case "last":
				_ = out.Encode(map[string]any{"id": id, "result": map[string]any{"inputs": "last"}})
				os.Exit(0)
			case "slow":
				time.Sleep(300 * time.Millisecond)
				_ = out.Encode(map[string]any{"id": id, "result": map[string]any{"inputs": "slow"}})
			default:
				_ = out.Encode(map[string]any{"id": id, "result": map[string]any{
					"inputs":     req["inputs"],
					"parameters": req["parameters"],
					"seed":       req["seed"],
				}})
			}
		}
	}
}

func helperBridgeConfig(mode string) config.BridgeConfig {
	return config.BridgeConfig{
		Env:                 []string{"TASKD_HELPER_WORKER=1", "TASKD_HELPER_MODE=" + mode},
		StartTimeoutSeconds: 10,
	}
}

func helperArgv() []string {
	return []string{os.Args[0], "-test.run=^TestHelperWorker$"}
}

func testSpec() Spec {
	return Spec{Task: "chat", PipelineTask: "text-generation", Model: "m", Revision: "main", Device: "cpu"}
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
