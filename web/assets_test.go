package web

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOpenAPIJSON(t *testing.T) {
	data, err := OpenAPIJSON()
	if err != nil {
		t.Fatalf("OpenAPIJSON() error: %v", err)
	}
	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		t.Errorf("openapi = %q", doc.OpenAPI)
	}
	for _, path := range []string{"/news", "/search", "/findByTitle", "/findByAuthor"} {
		if _, ok := doc.Paths[path]["get"]; !ok {
			t.Errorf("missing GET %s", path)
		}
	}
}

func TestRenderSwaggerUI(t *testing.T) {
	var sb strings.Builder
	if err := RenderSwaggerUI(&sb, "/v3/api-docs"); err != nil {
		t.Fatalf("RenderSwaggerUI() error: %v", err)
	}
	if !strings.Contains(sb.String(), `url: "\/v3\/api-docs"`) && !strings.Contains(sb.String(), `"/v3/api-docs"`) {
		t.Errorf("api docs URL not rendered:\n%s", sb.String())
	}
}
