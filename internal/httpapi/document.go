package httpapi

import (
	"github.com/Gobd/soilcheck"
	"github.com/Gobd/soilcheck/openapi"
	"github.com/getkin/kin-openapi/openapi3"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Document describes the routes served by [NewRouter].
func Document() *openapi3.T {
	doc := openapi.DocBase("soilcheck", "Validation service for soil telemetry", Version)

	rejected := openapi.Response{Desc: "Rejected", Bodies: []any{ErrorResponse{}}}

	openapi.Post(doc, "/v1/readings", "uploadReadings", openapi.Endpoint{
		Summary:     "Validate a batch of readings",
		Description: "Trims and escapes free text, then validates every reading. Returns the normalized batch.",
		Tags:        []string{"readings"},
		Request:     soilcheck.ReadingBatch{},
		Responses: map[string]openapi.Response{
			"200": {Desc: "Normalized batch", Bodies: []any{soilcheck.ReadingBatch{}}},
			"400": rejected,
		},
	})
	openapi.Post(doc, "/v1/deposits", "checkDeposit", openapi.Endpoint{
		Summary: "Validate a deposit figure",
		Tags:    []string{"finance"},
		Request: soilcheck.Deposit{},
		Responses: map[string]openapi.Response{
			"200": {Desc: "Normalized deposit", Bodies: []any{soilcheck.Deposit{}}},
			"400": rejected,
		},
	})
	openapi.Post(doc, "/v1/coordinates/filter", "filterCoordinates", openapi.Endpoint{
		Summary:     "Keep the valid [lat, lon] pairs of an array",
		Description: "Any JSON body is accepted. Entries that are not valid pairs are dropped.",
		Tags:        []string{"geo"},
		Request:     [][]float64{},
		Responses: map[string]openapi.Response{
			"200": {Desc: "Valid coordinates", Bodies: []any{FilterResponse{}}},
			"400": {Desc: "Body is not JSON", Bodies: []any{ErrorResponse{}}},
		},
	})
	openapi.Post(doc, "/v1/redirects/check", "checkRedirect", openapi.Endpoint{
		Summary: "Check whether a URL is a safe redirect target",
		Tags:    []string{"redirects"},
		Request: RedirectRequest{},
		Responses: map[string]openapi.Response{
			"200": {Desc: "Verdict", Bodies: []any{RedirectResponse{}}},
			"400": rejected,
		},
	})
	openapi.Get(doc, "/v1/env", "checkEnv", openapi.Endpoint{
		Summary:  "Report which required environment variables are set",
		Tags:     []string{"ops"},
		Response: soilcheck.EnvResult{},
	})
	openapi.Get(doc, "/healthz", "health", openapi.Endpoint{
		Tags:     []string{"ops"},
		Response: HealthResponse{},
	})
	return doc
}
