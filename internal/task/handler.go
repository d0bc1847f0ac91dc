// Package task adapts one inference task to the request/response envelopes.
//
// Every handler runs the same cycle on the "data" part:
//
//	Idle -> Decoding -> Invoking -> Encoding -> Done
//
// and any stage may fail into ErrorWrapped -> Done. A failure is terminal for
// that request only: it is logged, returned as {"error": "..."} in the "data"
// part, and the shared pipeline stays available. Nothing is retried.
package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/envelope"
)

// Handler processes one non-warmup request for a single task type. Process
// never panics and never returns nil.
type Handler interface {
	Task() config.Task
	Process(ctx context.Context, req *envelope.Request) *envelope.Response
}

type stage string

const (
	stageDecoding stage = "decoding"
	stageInvoking stage = "invoking"
	stageEncoding stage = "encoding"
)

// codec is the task-specific half of a handler.
type codec interface {
	// decode turns the raw "data" string into a pipeline call.
	decode(raw string) (capability.Call, error)
	// encode writes the "data" part for a pipeline result.
	encode(res capability.Result, out *envelope.Response) error
}

type handler struct {
	task   config.Task
	seed   int64
	seeded bool
	codec  codec
	pipe   capability.Pipeline
	log    zerolog.Logger

	// gate serializes seeding and invocation; pipelines are not assumed reentrant.
	gate sync.Mutex
}

// New builds the handler for cfg.Name around an already opened pipeline.
func New(cfg config.TaskConfig, pipe capability.Pipeline, log zerolog.Logger) (Handler, error) {
	if pipe == nil {
		return nil, fmt.Errorf("task %s: nil pipeline", cfg.Name)
	}
	h := &handler{
		task:   cfg.Name,
		seed:   cfg.Seed,
		seeded: true,
		pipe:   pipe,
		log:    log.With().Str("task", string(cfg.Name)).Logger(),
	}
	switch cfg.Name {
	case config.TaskSpeechRecognition:
		h.codec = speechRecognition{}
		h.seeded = false
	case config.TaskChat:
		h.codec = chat{cfg: cfg}
	case config.TaskQuestionAnswering:
		h.codec = questionAnswering{}
	case config.TaskSummarization:
		h.codec = summarization{cfg: cfg}
	case config.TaskTextClassification:
		h.codec = textClassification{}
	case config.TaskTextToImage:
		h.codec = textToImage{}
	case config.TaskTextToSpeech:
		h.codec = textToSpeech{}
	case config.TaskZeroShot:
		h.codec = zeroShot{cfg: cfg, log: h.log}
	default:
		return nil, fmt.Errorf("unsupported task %q", cfg.Name)
	}
	return h, nil
}

func (h *handler) Task() config.Task { return h.task }

func (h *handler) Process(ctx context.Context, req *envelope.Request) (resp *envelope.Response) {
	st := stageDecoding
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp = h.fail(st, fmt.Errorf("panic: %v", r))
		}
		observeRequest(h.task, resp.Failed(), time.Since(start))
	}()

	raw, err := req.String(envelope.DataPart)
	if err != nil {
		return h.fail(st, err)
	}
	call, err := h.codec.decode(raw)
	if err != nil {
		return h.fail(st, err)
	}

	st = stageInvoking
	res, err := h.invoke(ctx, call)
	if err != nil {
		return h.fail(st, err)
	}

	st = stageEncoding
	out := envelope.NewResponse()
	if err := h.codec.encode(res, out); err != nil {
		return h.fail(st, err)
	}
	return out
}

func (h *handler) invoke(ctx context.Context, call capability.Call) (capability.Result, error) {
	h.gate.Lock()
	defer h.gate.Unlock()
	if h.seeded {
		if s, ok := h.pipe.(capability.Seeder); ok {
			s.Seed(h.seed)
		}
	}
	return h.pipe.Invoke(ctx, call)
}

func (h *handler) fail(st stage, err error) *envelope.Response {
	h.log.Error().Str("stage", string(st)).Err(err).Msg("error in handle function")
	observeError(h.task, st)
	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("%s failed", st)
	}
	return envelope.ErrorResponse(msg)
}
