package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestRegisteredDocListsMountedRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}

	want := map[string]string{
		"/api/v1/articles": "post",
		"/file-upload":     "post",
		"/login":           "post",
		"/signup":          "post",
		"/api/v1/me":       "get",
	}
	for path, method := range want {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Fatalf("path %s missing from document", path)
		}
		if _, ok := ops[method]; !ok {
			t.Fatalf("path %s has no %s operation", path, method)
		}
	}
}
