package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	doc, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var spec struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	if spec.Info.Title != "taskd API" {
		t.Fatalf("title=%q", spec.Info.Title)
	}
	for _, p := range []string{"/invocations", "/ping", "/status"} {
		if _, ok := spec.Paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}
