package openapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Handler validates doc and returns an http.Handler that serves it as JSON.
// The document is marshaled once.
func Handler(doc *openapi3.T) (http.Handler, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	body, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return static(jsonContent, body), nil
}

// HandlerMust is like Handler but panics on error.
func HandlerMust(doc *openapi3.T) http.Handler {
	h, err := Handler(doc)
	if err != nil {
		panic(err)
	}
	return h
}

// YAMLHandler is like [Handler] but serves the document as YAML.
func YAMLHandler(doc *openapi3.T) (http.Handler, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	body, err := MarshalYAML(doc)
	if err != nil {
		return nil, err
	}
	return static("application/yaml", body), nil
}

// MarshalYAML renders doc as YAML. Keys come out sorted.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	b, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}

func static(contentType string, body []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	})
}
