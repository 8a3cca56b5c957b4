// Package web contains the embedded API documentation served by newsgw.
package web

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/yaml.v3"
)

// OpenAPIYAML is the OpenAPI 3 description of the HTTP API.
//
//go:embed openapi.yaml
var OpenAPIYAML []byte

//go:embed swagger.html
var swaggerHTML string

var swaggerPage = template.Must(template.New("swagger").Parse(swaggerHTML))

// OpenAPIJSON converts the embedded OpenAPI document to JSON.
func OpenAPIJSON() ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(OpenAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	return json.Marshal(doc)
}

// RenderSwaggerUI writes the Swagger UI page pointing at specURL.
func RenderSwaggerUI(w io.Writer, specURL string) error {
	return swaggerPage.Execute(w, struct{ SpecURL string }{specURL})
}
