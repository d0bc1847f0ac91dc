package main

import (
	"context"
	"sync/atomic"
	"time"

	"taskd/internal/config"
	"taskd/internal/envelope"
	"taskd/internal/task"
	"taskd/pkg/types"
)

// service adapts the dispatcher to the HTTP layer. It is not ready until the
// pipeline has been opened and the dispatcher installed.
type service struct {
	cfg     config.Config
	started time.Time
	disp    atomic.Pointer[task.Dispatcher]
}

func newService(cfg config.Config) *service {
	return &service{cfg: cfg, started: time.Now()}
}

func (s *service) setDispatcher(d *task.Dispatcher) { s.disp.Store(d) }

func (s *service) Ready() bool { return s.disp.Load() != nil }

func (s *service) Handle(ctx context.Context, req *envelope.Request) *envelope.Response {
	d := s.disp.Load()
	if d == nil {
		return envelope.ErrorResponse("pipeline loading")
	}
	return d.Handle(ctx, req)
}

func (s *service) Status() types.StatusResponse {
	now := time.Now()
	st := types.StatusResponse{
		Task:           string(s.cfg.Task.Name),
		Model:          s.cfg.Task.Model,
		Revision:       s.cfg.Task.Revision,
		Device:         s.cfg.Task.Device,
		Backend:        s.cfg.Backend.Kind,
		UptimeSeconds:  int64(now.Sub(s.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if d := s.disp.Load(); d != nil {
		stats := d.Stats()
		st.Ready = true
		st.RequestsTotal = stats.Requests
		st.ErrorsTotal = stats.Errors
		st.WarmupsTotal = stats.Warmups
	}
	return st
}
