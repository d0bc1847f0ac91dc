package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taskd/internal/capability"
	"taskd/internal/config"
	"taskd/internal/httpapi"
	"taskd/internal/obs"
	"taskd/internal/task"
)

func newServeCmd(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), fv)
			if err != nil {
				return err
			}
			log, closer := obs.NewLogger(cfg.Log)
			defer closer.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, nil)
		},
	}
	cmd.Flags().StringVar(&fv.addr, "addr", envOr("TASKD_ADDR", ":8080"), "HTTP listen address, e.g. :8080 (defaults TASKD_ADDR)")
	cmd.Flags().StringVar(&fv.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	return cmd
}

// serve listens before the pipeline is opened so /healthz answers during model
// loading; /readyz and /invocations report 503 until it is. A pipeline that
// fails to open aborts startup. If ready is non-nil it receives the bound
// address once the dispatcher is installed.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger, ready chan<- string) error {
	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(cfg.Log.Level)
	httpapi.SetMaxBodyBytes(cfg.Server.MaxBodyBytes)
	httpapi.SetRequestTimeoutSeconds(int(cfg.Server.RequestTimeout))
	httpapi.SetCORSOptions(cfg.Server.CORS.Enabled, cfg.Server.CORS.Origins, cfg.Server.CORS.Methods, cfg.Server.CORS.Headers)
	httpapi.SetBaseContext(ctx)

	svc := newService(cfg)
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	srv := &http.Server{Handler: httpapi.NewMux(svc), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("task", string(cfg.Task.Name)).Msg("taskd listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	stopServer := sync.OnceFunc(func() { shutdown(srv, log) })
	defer stopServer()

	pipe, err := capability.Open(ctx, task.SpecFor(cfg.Task), cfg.Backend, log)
	if err != nil {
		return err
	}
	defer func() {
		stopServer()
		if err := pipe.Close(); err != nil {
			log.Warn().Err(err).Msg("close pipeline")
		}
	}()
	h, err := task.New(cfg.Task, pipe, log)
	if err != nil {
		return err
	}
	svc.setDispatcher(task.NewDispatcher(h, log))
	log.Info().Str("model", cfg.Task.Model).Msg("ready")
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-capability.Exited(pipe):
		svc.setDispatcher(nil)
		return errors.New("pipeline worker exited")
	}
}

func shutdown(srv *http.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
}
