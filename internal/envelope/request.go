// Package envelope holds the request and response containers exchanged with
// the host. A Request is read-only once built; a Response only accepts
// appended parts.
package envelope

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// DataPart is the conventional name of the single payload part.
const DataPart = "data"

// ErrMissingPart is returned when a named part is not present.
var ErrMissingPart = errors.New("missing part")

// Part is a named chunk of a request body.
type Part struct {
	Name string
	Body []byte
}

// Request wraps the inbound parts.
type Request struct {
	parts []Part
	size  int
}

// NewRequest builds a request from parts in order. Lookups by name return the
// first match.
func NewRequest(parts ...Part) *Request {
	r := &Request{parts: make([]Part, 0, len(parts))}
	for _, p := range parts {
		r.parts = append(r.parts, p)
		r.size += len(p.Body)
	}
	return r
}

// FromBytes builds a request with a single "data" part.
func FromBytes(b []byte) *Request {
	return NewRequest(Part{Name: DataPart, Body: b})
}

// Size is the total number of payload bytes across all parts.
// Zero means the host sent a warmup probe.
func (r *Request) Size() int {
	if r == nil {
		return 0
	}
	return r.size
}

// Names lists part names in arrival order.
func (r *Request) Names() []string {
	out := make([]string, 0, len(r.parts))
	for _, p := range r.parts {
		out = append(out, p.Name)
	}
	return out
}

// Has reports whether a part with the given name exists.
func (r *Request) Has(name string) bool {
	_, ok := r.find(name)
	return ok
}

// Bytes returns the raw body of the named part.
func (r *Request) Bytes(name string) ([]byte, error) {
	p, ok := r.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	return p.Body, nil
}

// String returns the named part decoded as UTF-8 text.
func (r *Request) String(name string) (string, error) {
	b, err := r.Bytes(name)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("part %s is not valid UTF-8", name)
	}
	return string(b), nil
}

func (r *Request) find(name string) (Part, bool) {
	if r == nil {
		return Part{}, false
	}
	for _, p := range r.parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}
