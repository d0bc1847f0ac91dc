package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"taskd/internal/envelope"
)

// readEnvelope builds a request envelope from the HTTP body. multipart/form-data
// yields one part per field; any other body becomes the single "data" part.
func readEnvelope(r *http.Request) (*envelope.Request, error) {
	mt, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mt, "multipart/") {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return envelope.FromBytes(b), nil
	}
	if params["boundary"] == "" {
		return nil, errors.New("multipart body without boundary")
	}
	mr := multipart.NewReader(r.Body, params["boundary"])
	var parts []envelope.Part
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := p.FormName()
		if name == "" {
			name = p.FileName()
		}
		if name == "" {
			name = envelope.DataPart
		}
		b, err := io.ReadAll(p)
		_ = p.Close()
		if err != nil {
			return nil, err
		}
		parts = append(parts, envelope.Part{Name: name, Body: b})
	}
	return envelope.NewRequest(parts...), nil
}

func contentType(p envelope.OutPart) string {
	switch p.Kind {
	case envelope.KindText:
		return "text/plain; charset=utf-8"
	case envelope.KindJSON:
		return "application/json"
	default:
		return http.DetectContentType(p.Body)
	}
}

// writeEnvelope renders a response envelope: nothing for a warmup, the bare
// part for one part, multipart/mixed otherwise.
func writeEnvelope(w http.ResponseWriter, resp *envelope.Response) error {
	parts := resp.Parts()
	switch len(parts) {
	case 0:
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
		return nil
	case 1:
		w.Header().Set("Content-Type", contentType(parts[0]))
		w.Header().Set("Content-Length", strconv.Itoa(len(parts[0].Body)))
		w.Header().Set("X-Part-Name", parts[0].Name)
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(parts[0].Body)
		return err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, p.Name))
		h.Set("Content-Type", contentType(p))
		pw, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := pw.Write(p.Body); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}
