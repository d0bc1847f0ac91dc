package capability

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskd/internal/config"
)

// The bridge speaks line-delimited JSON with a worker process that hosts the
// pipeline. The first message is "init" carrying the Spec; the worker answers
// {"ready":true} once the model is loaded. Every later message is "invoke".

type bridgeRequest struct {
	Op     string         `json:"op"`
	ID     string         `json:"id"`
	Spec   *Spec          `json:"spec,omitempty"`
	Inputs any            `json:"inputs,omitempty"`
	Params map[string]any `json:"parameters,omitempty"`
	Seed   *int64         `json:"seed,omitempty"`
}

type bridgeResponse struct {
	ID          string          `json:"id"`
	Ready       bool            `json:"ready,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Image       []byte          `json:"image,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type bridge struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	replies chan []byte
	closing chan struct{}
	done    chan struct{}
	stop    sync.Once
	broken  error
	stale   int // replies still owed for calls whose caller gave up
	seed    *int64
	log     zerolog.Logger
}

func parseBridgeCommand(raw string) ([]string, error) {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return nil, fmt.Errorf("bridge command is empty")
	}
	return parts, nil
}

// startBridge launches the worker and blocks until it reports ready.
func startBridge(ctx context.Context, argv []string, spec Spec, cfg config.BridgeConfig, log zerolog.Logger) (*bridge, error) {
	if len(argv) == 0 {
		return nil, ErrDependencyUnavailable("bridge command is not configured")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Dir = cfg.Dir
	cmd.Stderr = &lineLogger{log: log, prefix: "worker"}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, ErrDependencyUnavailable(fmt.Sprintf("start worker %s: %v", argv[0], err))
	}
	b := &bridge{
		cmd:     cmd,
		stdin:   stdin,
		replies: make(chan []byte),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		log:     log,
	}
	go b.readLoop(stdout)
	log.Info().Strs("argv", argv).Int("pid", cmd.Process.Pid).Msg("bridge worker started")

	initCtx := ctx
	if cfg.StartTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.StartTimeoutSeconds)*time.Second)
		defer cancel()
	}
	s := spec
	resp, err := b.roundTrip(initCtx, bridgeRequest{Op: "init", ID: uuid.NewString(), Spec: &s})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("bridge init: %w", err)
	}
	if resp.Error != "" {
		_ = b.Close()
		return nil, fmt.Errorf("bridge init: %w", ErrPipeline(resp.Error))
	}
	if !resp.Ready {
		_ = b.Close()
		return nil, fmt.Errorf("bridge init: worker did not report ready")
	}
	return b, nil
}

func (b *bridge) Seed(seed int64) {
	b.mu.Lock()
	b.seed = &seed
	b.mu.Unlock()
}

func (b *bridge) Invoke(ctx context.Context, call Call) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := bridgeRequest{Op: "invoke", ID: uuid.NewString(), Inputs: call.Inputs, Params: call.Params, Seed: b.seed}
	b.seed = nil
	resp, err := b.roundTrip(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if resp.Error != "" {
		return Result{}, ErrPipeline(resp.Error)
	}
	if resp.Image != nil {
		ct := resp.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return Result{Body: resp.Image, ContentType: ct}, nil
	}
	return Result{Body: resp.Result, ContentType: "application/json"}, nil
}

// readLoop forwards worker stdout lines until EOF, then reaps the process.
// Wait is only called once every read from the pipe has completed.
func (b *bridge) readLoop(stdout io.Reader) {
	r := bufio.NewReaderSize(stdout, 1<<20)
	for {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			select {
			case b.replies <- line:
			case <-b.closing:
			}
		}
		if err != nil {
			break
		}
	}
	close(b.replies)
	if err := b.cmd.Wait(); err != nil {
		b.log.Debug().Err(err).Msg("bridge worker exited")
	}
	close(b.done)
}

// Done is closed once the worker process has exited.
func (b *bridge) Done() <-chan struct{} { return b.done }

// roundTrip writes one request line and reads one reply line. It must be
// called with b.mu held (or before the bridge is shared).
//
// A canceled caller does not stop the worker: the reply it was owed is
// drained before the next request is written.
func (b *bridge) roundTrip(ctx context.Context, req bridgeRequest) (bridgeResponse, error) {
	if b.broken != nil {
		return bridgeResponse{}, b.broken
	}
	for b.stale > 0 {
		select {
		case _, ok := <-b.replies:
			if !ok {
				return bridgeResponse{}, b.exited()
			}
			b.stale--
		case <-ctx.Done():
			return bridgeResponse{}, ctx.Err()
		}
	}
	line, err := json.Marshal(req)
	if err != nil {
		return bridgeResponse{}, fmt.Errorf("encode bridge request: %w", err)
	}
	line = append(line, '\n')
	if _, err := b.stdin.Write(line); err != nil {
		b.broken = ErrDependencyUnavailable("bridge worker is gone: " + err.Error())
		return bridgeResponse{}, b.broken
	}

	var reply []byte
	select {
	case l, ok := <-b.replies:
		if !ok {
			return bridgeResponse{}, b.exited()
		}
		reply = l
	case <-ctx.Done():
		b.stale++
		b.log.Warn().Str("id", req.ID).Err(ctx.Err()).Msg("bridge call abandoned; reply will be discarded")
		return bridgeResponse{}, ctx.Err()
	}
	var resp bridgeResponse
	if err := json.Unmarshal(bytes.TrimSpace(reply), &resp); err != nil {
		return bridgeResponse{}, fmt.Errorf("decode bridge response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return bridgeResponse{}, fmt.Errorf("bridge response id mismatch: got %s want %s", resp.ID, req.ID)
	}
	return resp, nil
}

func (b *bridge) exited() error {
	b.broken = ErrDependencyUnavailable("bridge worker exited")
	return b.broken
}

func (b *bridge) kill() {
	if b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
}

// Close asks the worker to exit by closing stdin, then kills it if it lingers.
func (b *bridge) Close() error {
	b.stop.Do(func() { close(b.closing) })
	_ = b.stdin.Close()
	select {
	case <-b.done:
	case <-time.After(5 * time.Second):
		b.kill()
		<-b.done
	}
	return nil
}

// lineLogger logs complete worker stderr lines.
type lineLogger struct {
	log    zerolog.Logger
	prefix string
	buf    []byte
}

func (lw *lineLogger) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(lw.buf[:idx]), "\r")
		if len(line) > 0 {
			lw.log.Debug().Str("src", lw.prefix).Msg(line)
		}
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}
