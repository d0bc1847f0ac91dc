package envelope

import (
	"encoding/json"

	"taskd/pkg/types"
)

// Kind tells the host how to label a response part.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// OutPart is one named part of a response.
type OutPart struct {
	Name string
	Kind Kind
	Body []byte
}

// Response collects outbound parts in insertion order.
type Response struct {
	parts  []OutPart
	failed bool
}

// NewResponse returns an empty response; an empty response is the warmup reply.
func NewResponse() *Response { return &Response{} }

// AddString appends a UTF-8 text part.
func (r *Response) AddString(name, s string) {
	r.parts = append(r.parts, OutPart{Name: name, Kind: KindText, Body: []byte(s)})
}

// AddJSON marshals v and appends it as a JSON part.
func (r *Response) AddJSON(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.parts = append(r.parts, OutPart{Name: name, Kind: KindJSON, Body: b})
	return nil
}

// AddRawJSON appends already encoded JSON.
func (r *Response) AddRawJSON(name string, b []byte) {
	r.parts = append(r.parts, OutPart{Name: name, Kind: KindJSON, Body: b})
}

// AddBytes appends a binary part.
func (r *Response) AddBytes(name string, b []byte) {
	r.parts = append(r.parts, OutPart{Name: name, Kind: KindBinary, Body: b})
}

// Parts returns a copy of the parts slice.
func (r *Response) Parts() []OutPart {
	out := make([]OutPart, len(r.parts))
	copy(out, r.parts)
	return out
}

// Len is the number of parts.
func (r *Response) Len() int { return len(r.parts) }

// Get returns the first part with the given name.
func (r *Response) Get(name string) (OutPart, bool) {
	for _, p := range r.parts {
		if p.Name == name {
			return p, true
		}
	}
	return OutPart{}, false
}

// Failed reports whether the response was built by ErrorResponse. Hosts do
// not surface it; callers inspect the "data" payload for an error key.
func (r *Response) Failed() bool { return r.failed }

// ErrorResponse builds the fail-soft reply: {"error": msg} in the "data" part.
func ErrorResponse(msg string) *Response {
	r := &Response{failed: true}
	b, _ := json.Marshal(types.ErrorPayload{Error: msg})
	r.AddRawJSON(DataPart, b)
	return r
}
