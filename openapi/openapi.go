package openapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const jsonContent = "application/json"

// Response is one entry of an operation's response map. Each body type
// becomes an alternative of a oneOf schema.
type Response struct {
	Desc   string
	Bodies []any
}

// Endpoint describes one operation registered with [Get] or [Post].
type Endpoint struct {
	Summary     string
	Description string
	Tags        []string
	Request     any   // single request body type
	Requests    []any // alternative request body types, rendered as oneOf
	Response    any   // 200 body type
	// Responses keyed by status code ("200", "400", "4xx"). Takes
	// precedence over Response.
	Responses map[string]Response
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(vs ...any) *openapi3.RequestBodyRef {
	o, err := NewRequest(vs...)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest builds a JSON request body from the schemas of vs.
func NewRequest(vs ...any) (*openapi3.RequestBodyRef, error) {
	if len(vs) == 0 {
		return nil, errors.New("no request types given")
	}
	schema, err := oneOf(vs)
	if err != nil {
		return nil, err
	}
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{jsonContent: &openapi3.MediaType{Schema: schema}})
	return &openapi3.RequestBodyRef{Value: body}, nil
}

// NewResponseMust is like [NewResponse] but panics on error.
func NewResponseMust(vs map[string]Response) *openapi3.Responses {
	o, err := NewResponse(vs)
	if err != nil {
		panic(err)
	}
	return o
}

// NewResponse builds a responses object keyed by status code.
func NewResponse(vs map[string]Response) (*openapi3.Responses, error) {
	if len(vs) == 0 {
		return nil, errors.New("no responses given")
	}
	opts := make([]openapi3.NewResponsesOption, 0, len(vs))
	for code, r := range vs {
		desc := r.Desc
		resp := &openapi3.Response{Description: &desc}
		if len(r.Bodies) > 0 {
			schema, err := oneOf(r.Bodies)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", code, err)
			}
			resp.Content = openapi3.Content{jsonContent: &openapi3.MediaType{Schema: schema}}
		}
		opts = append(opts, openapi3.WithName(code, resp))
	}
	return openapi3.NewResponses(opts...), nil
}

// oneOf returns the schema of a single value, or a oneOf over several.
func oneOf(vs []any) (*openapi3.SchemaRef, error) {
	refs := make(openapi3.SchemaRefs, 0, len(vs))
	for _, v := range vs {
		ref, err := NewSchemaRefForValue(v)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{OneOf: refs}}, nil
}

// DocBase returns an empty OpenAPI 3.0.3 document.
func DocBase(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}
}

// AddPath sets op as the method's operation at path, keeping any other
// methods already registered there.
func AddPath(path, method string, doc *openapi3.T, op *openapi3.Operation) {
	p := doc.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}
	p.SetOperation(method, op)
	doc.Paths.Set(path, p)
}

func addEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) {
	op := openapi3.NewOperation()
	op.OperationID = operationID
	op.Summary = ep.Summary
	op.Description = ep.Description
	op.Tags = ep.Tags

	switch {
	case len(ep.Requests) > 0:
		op.RequestBody = NewRequestMust(ep.Requests...)
	case ep.Request != nil:
		op.RequestBody = NewRequestMust(ep.Request)
	}

	responses := ep.Responses
	if responses == nil && ep.Response != nil {
		responses = map[string]Response{"200": {Desc: "OK", Bodies: []any{ep.Response}}}
	}
	if responses != nil {
		op.Responses = NewResponseMust(responses)
	} else {
		op.Responses = openapi3.NewResponses()
	}

	AddPath(path, method, doc, op)
}

// Get registers a GET operation. It panics if a schema cannot be generated.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodGet, operationID, ep)
}

// Post registers a POST operation. It panics if a schema cannot be generated.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPost, operationID, ep)
}
