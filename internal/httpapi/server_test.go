package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"taskd/internal/envelope"
	"taskd/pkg/types"
)

type mockService struct {
	mu     sync.Mutex
	status types.StatusResponse
	ready  bool
	reply  func(*envelope.Request) *envelope.Response
	seen   []*envelope.Request
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool { return m.ready }
func (m *mockService) Handle(ctx context.Context, req *envelope.Request) *envelope.Response {
	m.mu.Lock()
	m.seen = append(m.seen, req)
	m.mu.Unlock()
	if req.Size() == 0 {
		return envelope.NewResponse()
	}
	if m.reply != nil {
		return m.reply(req)
	}
	resp := envelope.NewResponse()
	s, _ := req.String(envelope.DataPart)
	resp.AddString(envelope.DataPart, strings.ToUpper(s))
	return resp
}

func (m *mockService) lastRequest(t *testing.T) *envelope.Request {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.seen) == 0 {
		t.Fatalf("service not called")
	}
	return m.seen[len(m.seen)-1]
}

func TestInvocations_SinglePart(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("hello")))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Body.String() != "HELLO" {
		t.Fatalf("body=%q", w.Body.String())
	}
	if w.Header().Get("X-Part-Name") != "data" {
		t.Fatalf("part name header=%q", w.Header().Get("X-Part-Name"))
	}
}

func TestInvocations_EmptyBodyIsWarmup(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", nil))
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if svc.lastRequest(t).Size() != 0 {
		t.Fatalf("expected zero-size request")
	}
}

func TestPing(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if svc.lastRequest(t).Size() != 0 {
		t.Fatalf("ping should dispatch a warmup")
	}
}

func TestInvocations_NotReady(t *testing.T) {
	svc := &mockService{ready: false}
	r := NewMux(svc)
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("x")),
		httptest.NewRequest(http.MethodGet, "/ping", nil),
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s status=%d", req.URL.Path, w.Code)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != http.StatusServiceUnavailable {
			t.Fatalf("body=%q err=%v", w.Body.String(), err)
		}
	}
}

func TestInvocations_ErrorPayloadIs200(t *testing.T) {
	svc := &mockService{ready: true, reply: func(*envelope.Request) *envelope.Response {
		return envelope.ErrorResponse("invalid input: boom")
	}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("x")))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ErrorPayload
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error != "invalid input: boom" {
		t.Fatalf("body=%q err=%v", w.Body.String(), err)
	}
}

func TestInvocations_MultipartRequest(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("data", "abc")
	fw, _ := mw.CreateFormFile("audio", "clip.wav")
	_, _ = fw.Write([]byte{1, 2, 3})
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/invocations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "ABC" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	got := svc.lastRequest(t)
	if got.Size() != 6 || !got.Has("audio") {
		t.Fatalf("parts=%v size=%d", got.Names(), got.Size())
	}
}

func TestInvocations_MultipartResponse(t *testing.T) {
	svc := &mockService{ready: true, reply: func(*envelope.Request) *envelope.Response {
		resp := envelope.NewResponse()
		resp.AddString("data", "label")
		_ = resp.AddJSON("scores", []float64{0.5})
		return resp
	}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("x")))
	mt, params, err := mime.ParseMediaType(w.Header().Get("Content-Type"))
	if err != nil || mt != "multipart/mixed" {
		t.Fatalf("content-type=%q err=%v", w.Header().Get("Content-Type"), err)
	}
	mr := multipart.NewReader(w.Body, params["boundary"])
	want := []struct{ name, ct, body string }{
		{"data", "text/plain; charset=utf-8", "label"},
		{"scores", "application/json", "[0.5]"},
	}
	for _, wp := range want {
		p, err := mr.NextPart()
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		b, _ := io.ReadAll(p)
		if p.FormName() != wp.name || p.Header.Get("Content-Type") != wp.ct || string(b) != wp.body {
			t.Fatalf("part %s: ct=%q body=%q", p.FormName(), p.Header.Get("Content-Type"), b)
		}
	}
}

func TestInvocations_BinaryPart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	svc := &mockService{ready: true, reply: func(*envelope.Request) *envelope.Response {
		resp := envelope.NewResponse()
		resp.AddBytes("data", png)
		return resp
	}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("a cat")))
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content-type=%s", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), png) {
		t.Fatalf("body mismatch")
	}
}

func TestInvocations_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(4)
	t.Cleanup(func() { SetMaxBodyBytes(0) })
	svc := &mockService{ready: true}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("too long")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestInvocations_BadMultipart(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Task: "summarization", RequestsTotal: 3}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Task != "summarization" || body.RequestsTotal != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthAndReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("readyz status=%d body=%q", w.Code, w.Body.String())
	}

	r = NewMux(&mockService{ready: true})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
}

func TestSecurityHeaderAndRequestID(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestCORS_OptIn(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.com"}, []string{"GET", "POST"}, []string{"Content-Type"})
	t.Cleanup(func() { SetCORSOptions(false, nil, nil, nil) })
	r := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodOptions, "/invocations", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("allow-origin=%q status=%d", got, w.Code)
	}
}

func TestInvocations_BaseContextCanceled(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	SetBaseContext(base)
	t.Cleanup(func() { SetBaseContext(nil) })
	var sawErr error
	svc := &mockService{ready: true, reply: func(*envelope.Request) *envelope.Response {
		return envelope.NewResponse()
	}}
	h := NewMux(&ctxService{mockService: svc, onHandle: func(ctx context.Context) {
		cancel()
		<-ctx.Done()
		sawErr = ctx.Err()
	}})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader("x")))
	if sawErr == nil {
		t.Fatalf("handler context not canceled by base context")
	}
}

type ctxService struct {
	*mockService
	onHandle func(ctx context.Context)
}

func (c *ctxService) Handle(ctx context.Context, req *envelope.Request) *envelope.Response {
	c.onHandle(ctx)
	return c.mockService.Handle(ctx, req)
}
