package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"taskd/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// flagValues holds command-line overrides. A flag only overrides the config
// file when it was set explicitly.
type flagValues struct {
	configPath string
	logLevel   string
	logFormat  string

	addr        string
	corsOrigins string

	task               string
	model              string
	revision           string
	device             string
	maxNewTokens       int
	doSample           bool
	temperature        float64
	minLength          int
	topK               config.TopK
	multiLabel         bool
	returnTopLabelOnly bool

	backend       string
	bridgeCommand string
	remoteURL     string
	llamaModel    string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func buildRootCmd() *cobra.Command {
	fv := &flagValues{}
	root := &cobra.Command{
		Use:           "taskd",
		Short:         "Task-typed inference adapter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", os.Getenv("TASKD_CONFIG"), "Config file (.yaml|.yml|.json|.toml), defaults TASKD_CONFIG")
	pf.StringVar(&fv.logLevel, "log-level", os.Getenv("TASKD_LOG_LEVEL"), "Log level: debug|info|warn|error|off (defaults TASKD_LOG_LEVEL)")
	pf.StringVar(&fv.logFormat, "log-format", "", "Log format: console|json")
	addTaskFlags(pf, fv)

	root.AddCommand(newServeCmd(fv), newInvokeCmd(fv), newVersionCmd())
	return root
}

func addTaskFlags(fs *pflag.FlagSet, fv *flagValues) {
	def := config.DefaultTask()
	fv.topK = def.TopK
	fs.StringVar(&fv.task, "task", "", "Task: "+taskNames())
	fs.StringVar(&fv.model, "model", "", "Model identifier")
	fs.StringVar(&fv.revision, "revision", def.Revision, "Model revision")
	fs.StringVar(&fv.device, "device", def.Device, "Device placement")
	fs.IntVar(&fv.maxNewTokens, "max-new-tokens", def.MaxNewTokens, "Generation length cap")
	fs.BoolVar(&fv.doSample, "do-sample", def.DoSample, "Enable sampling")
	fs.Float64Var(&fv.temperature, "temperature", def.Temperature, "Sampling temperature")
	fs.IntVar(&fv.minLength, "min-length", def.MinLength, "Summary minimum length")
	fs.Var(&fv.topK, "top-k", "Text classification labels to return: N or all")
	fs.BoolVar(&fv.multiLabel, "multi-label", def.MultiLabel, "Zero-shot: score labels independently")
	fs.BoolVar(&fv.returnTopLabelOnly, "return-top-label-only", def.ReturnTopLabelOnly, "Zero-shot: return only the best label")
	fs.StringVar(&fv.backend, "backend", "", "Inference backend: bridge|remote|llama")
	fs.StringVar(&fv.bridgeCommand, "bridge-command", "", "Worker command line for the bridge backend")
	fs.StringVar(&fv.remoteURL, "remote-url", "", "Pipeline server URL for the remote backend")
	fs.StringVar(&fv.llamaModel, "llama-model", "", "GGUF model path for the llama backend")
}

func taskNames() string {
	names := make([]string, len(config.Tasks))
	for i, t := range config.Tasks {
		names[i] = string(t)
	}
	return strings.Join(names, "|")
}

// loadConfig layers defaults, the config file, TASKD_ADDR and explicit flags,
// then validates the result.
func loadConfig(fs *pflag.FlagSet, fv *flagValues) (config.Config, error) {
	cfg := config.Default()
	if fv.configPath != "" {
		var err error
		if cfg, err = config.Load(fv.configPath); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if v := os.Getenv("TASKD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	applyFlags(fs, fv, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(fs *pflag.FlagSet, fv *flagValues, cfg *config.Config) {
	set := func(name string, apply func()) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	if fv.logLevel != "" {
		cfg.Log.Level = fv.logLevel
	}
	set("log-format", func() { cfg.Log.Format = fv.logFormat })
	set("addr", func() { cfg.Server.Addr = fv.addr })
	set("cors-origins", func() {
		cfg.Server.CORS.Enabled = true
		cfg.Server.CORS.Origins = splitCSV(fv.corsOrigins)
	})
	set("task", func() { cfg.Task.Name = config.Task(fv.task) })
	set("model", func() { cfg.Task.Model = fv.model })
	set("revision", func() { cfg.Task.Revision = fv.revision })
	set("device", func() { cfg.Task.Device = fv.device })
	set("max-new-tokens", func() { cfg.Task.MaxNewTokens = fv.maxNewTokens })
	set("do-sample", func() { cfg.Task.DoSample = fv.doSample })
	set("temperature", func() { cfg.Task.Temperature = fv.temperature })
	set("min-length", func() { cfg.Task.MinLength = fv.minLength })
	set("top-k", func() { cfg.Task.TopK = fv.topK })
	set("multi-label", func() { cfg.Task.MultiLabel = fv.multiLabel })
	set("return-top-label-only", func() { cfg.Task.ReturnTopLabelOnly = fv.returnTopLabelOnly })
	set("backend", func() { cfg.Backend.Kind = fv.backend })
	set("bridge-command", func() { cfg.Backend.Bridge.Command = fv.bridgeCommand })
	set("remote-url", func() { cfg.Backend.Remote.URL = fv.remoteURL })
	set("llama-model", func() { cfg.Backend.Llama.ModelPath = fv.llamaModel })
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "taskd", version)
		},
	}
}
