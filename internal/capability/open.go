package capability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"taskd/internal/config"
)

// LlamaBuilt reports whether the in-process llama backend is compiled in.
func LlamaBuilt() bool { return llamaBuilt }

// Open constructs the process-wide pipeline for spec on the configured
// backend. A returned error means the process cannot serve and should exit.
func Open(ctx context.Context, spec Spec, cfg config.BackendConfig, log zerolog.Logger) (Pipeline, error) {
	log = log.With().Str("backend", cfg.Kind).Str("task", spec.Task).Str("model", spec.Model).Logger()
	var (
		p   Pipeline
		err error
	)
	switch cfg.Kind {
	case config.BackendBridge:
		var argv []string
		argv, err = parseBridgeCommand(cfg.Bridge.Command)
		if err == nil {
			p, err = startBridge(ctx, argv, spec, cfg.Bridge, log)
		}
	case config.BackendRemote:
		p, err = newRemote(spec, cfg.Remote, nil)
	case config.BackendLlama:
		llamaCfg := cfg.Llama
		llamaCfg.ModelPath, err = resolveGGUF(llamaCfg.ModelPath, spec.Model)
		if err == nil {
			p, err = newLlama(spec, llamaCfg)
		}
	default:
		err = fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s pipeline: %w", cfg.Kind, err)
	}
	log.Info().Str("revision", spec.Revision).Str("device", spec.Device).Msg("pipeline ready")
	return p, nil
}
