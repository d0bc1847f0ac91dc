package task

import (
	"taskd/internal/capability"
	"taskd/internal/config"
)

// SpecFor describes the pipeline a task needs. Construction-time options
// live here; per-call parameters are set by each handler.
func SpecFor(cfg config.TaskConfig) capability.Spec {
	s := capability.Spec{
		Task:         string(cfg.Name),
		PipelineTask: cfg.Name.PipelineTask(),
		Model:        cfg.Model,
		Revision:     cfg.Revision,
		Device:       cfg.Device,
	}
	switch cfg.Name {
	case config.TaskTextClassification:
		s.Options = map[string]any{"top_k": cfg.TopK.Value()}
	case config.TaskTextToImage:
		// CPU-safe dtype, no safety checker
		s.Options = map[string]any{"torch_dtype": "float32", "safety_checker": nil}
	}
	return s
}
