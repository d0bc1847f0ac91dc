package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskd/internal/envelope"
	"taskd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	// Handle dispatches one envelope. It must never return nil.
	Handle(ctx context.Context, req *envelope.Request) *envelope.Response
	Status() types.StatusResponse
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Post("/invocations", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			IncrementRejected("not_ready")
			writeJSONError(w, http.StatusServiceUnavailable, "pipeline loading")
			return
		}
		lvl := requestLogLevel(r)
		log := requestLogger(r)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		req, err := readEnvelope(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				IncrementRejected("too_large")
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			IncrementRejected("bad_body")
			writeJSONError(w, http.StatusBadRequest, "unreadable request body: "+err.Error())
			return
		}
		if lvl >= LevelDebug {
			for _, name := range req.Names() {
				b, _ := req.Bytes(name)
				log.Debug().Str("part", name).Str("body", preview(b)).Msg("invocation part")
			}
		}

		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if requestTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, requestTimeout)
			defer tcancel()
		}
		start := time.Now()
		resp := svc.Handle(ctx, req)
		if r.Context().Err() != nil {
			// client went away
			return
		}
		if err := writeEnvelope(w, resp); err != nil && lvl >= LevelError {
			log.Error().Err(err).Msg("write response")
		}
		switch {
		case resp.Failed() && lvl >= LevelError:
			p, _ := resp.Get(envelope.DataPart)
			log.Error().Int("bytes", req.Size()).Dur("dur", time.Since(start)).Str("data", preview(p.Body)).Msg("invocation failed")
		case lvl >= LevelInfo:
			log.Info().Int("bytes", req.Size()).Int("parts", resp.Len()).Dur("dur", time.Since(start)).Msg("invocation")
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			writeJSONError(w, http.StatusServiceUnavailable, "pipeline loading")
			return
		}
		_ = writeEnvelope(w, svc.Handle(r.Context(), envelope.NewRequest()))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}
