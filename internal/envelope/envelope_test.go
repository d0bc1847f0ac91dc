package envelope

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRequestSizeAndLookup(t *testing.T) {
	r := NewRequest(Part{Name: "data", Body: []byte("hello")}, Part{Name: "meta", Body: []byte("{}")})
	if r.Size() != 7 {
		t.Fatalf("size=%d, want 7", r.Size())
	}
	s, err := r.String("data")
	if err != nil || s != "hello" {
		t.Fatalf("String(data) = %q, %v", s, err)
	}
	if !r.Has("meta") || r.Has("nope") {
		t.Fatalf("Has mismatch")
	}
	if _, err := r.Bytes("nope"); !errors.Is(err, ErrMissingPart) {
		t.Fatalf("expected ErrMissingPart, got %v", err)
	}
	if got := r.Names(); len(got) != 2 || got[0] != "data" || got[1] != "meta" {
		t.Fatalf("names=%v", got)
	}
}

func TestRequestEmptyIsZeroSize(t *testing.T) {
	cases := []*Request{nil, NewRequest(), FromBytes(nil), FromBytes([]byte{})}
	for i, r := range cases {
		if r.Size() != 0 {
			t.Fatalf("case %d: size=%d", i, r.Size())
		}
	}
}

func TestRequestStringRejectsInvalidUTF8(t *testing.T) {
	r := FromBytes([]byte{0xff, 0xfe})
	if _, err := r.String("data"); err == nil {
		t.Fatalf("expected utf-8 error")
	}
	if b, err := r.Bytes("data"); err != nil || len(b) != 2 {
		t.Fatalf("Bytes should still work: %v %v", b, err)
	}
}

func TestResponseParts(t *testing.T) {
	r := NewResponse()
	r.AddString("data", "x")
	if err := r.AddJSON("json", map[string]int{"a": 1}); err != nil {
		t.Fatalf("AddJSON: %v", err)
	}
	r.AddBytes("img", []byte{1, 2})
	if r.Len() != 3 {
		t.Fatalf("len=%d", r.Len())
	}
	p, ok := r.Get("json")
	if !ok || p.Kind != KindJSON || string(p.Body) != `{"a":1}` {
		t.Fatalf("json part = %+v", p)
	}
	if p, _ := r.Get("img"); p.Kind != KindBinary {
		t.Fatalf("img kind = %v", p.Kind)
	}
	if err := r.AddJSON("bad", make(chan int)); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestErrorResponse(t *testing.T) {
	r := ErrorResponse(`boom "quoted"`)
	p, ok := r.Get(DataPart)
	if !ok || p.Kind != KindJSON {
		t.Fatalf("missing data part: %+v", p)
	}
	var got map[string]string
	if err := json.Unmarshal(p.Body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["error"] != `boom "quoted"` || !r.Failed() {
		t.Fatalf("error=%q", got["error"])
	}
}
