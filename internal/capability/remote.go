package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"taskd/internal/config"
)

// maxRemoteBody caps how much of a pipeline server reply is read.
const maxRemoteBody = 256 << 20

type remoteRequest struct {
	Task       string         `json:"task"`
	Model      string         `json:"model"`
	Revision   string         `json:"revision,omitempty"`
	Device     string         `json:"device,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Seed       *int64         `json:"seed,omitempty"`
}

// remote forwards each call to an HTTP pipeline server.
type remote struct {
	url     string
	headers map[string]string
	spec    Spec
	client  *http.Client

	mu   sync.Mutex
	seed *int64
}

func newRemote(spec Spec, cfg config.RemoteConfig, client *http.Client) (*remote, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote pipeline url %q", cfg.URL)
	}
	if client == nil {
		client = &http.Client{}
	}
	return &remote{url: u.String(), headers: cfg.Headers, spec: spec, client: client}, nil
}

func (r *remote) Seed(seed int64) {
	r.mu.Lock()
	r.seed = &seed
	r.mu.Unlock()
}

func (r *remote) Invoke(ctx context.Context, call Call) (Result, error) {
	r.mu.Lock()
	seed := r.seed
	r.seed = nil
	r.mu.Unlock()

	body, err := json.Marshal(remoteRequest{
		Task:       r.spec.PipelineTask,
		Model:      r.spec.Model,
		Revision:   r.spec.Revision,
		Device:     r.spec.Device,
		Options:    r.spec.Options,
		Inputs:     call.Inputs,
		Parameters: call.Params,
		Seed:       seed,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode remote request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, ErrDependencyUnavailable("remote pipeline unreachable: " + err.Error())
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return Result{}, fmt.Errorf("read remote response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, ErrPipeline(remoteErrorMessage(resp.StatusCode, b))
	}
	return Result{Body: b, ContentType: resp.Header.Get("Content-Type")}, nil
}

// remoteErrorMessage prefers the server's {"error": "..."} message.
func remoteErrorMessage(status int, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Sprintf("remote pipeline returned %d: %s", status, msg)
}

func (r *remote) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
