// Package openapi builds OpenAPI 3 documents from types that implement
// [soilcheck.Ruler] and serves them as JSON.
//
//	doc := openapi.DocBase("soilcheck", "Soil telemetry API", "1.0")
//	openapi.Post(doc, "/v1/readings", "uploadReadings", openapi.Endpoint{
//	    Request:  soilcheck.ReadingBatch{},
//	    Response: soilcheck.ReadingBatch{},
//	})
//	mux.Handle("/openapi.json", openapi.HandlerMust(doc))
package openapi
