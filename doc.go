// Package soilcheck validates soil-sensing telemetry before it reaches a
// dashboard: coordinates, currency amounts, dates, redirect URLs, environment
// configuration and API response shapes.
//
// The predicates never panic and never return errors. Malformed input of
// any type yields false, "" or an empty slice, and the rejection is logged
// to the Validator's *slog.Logger with the function name, the offending
// value and a [Reason]:
//
//	v := soilcheck.New(soilcheck.WithLogger(logger))
//	if !v.ValidateCoordinates(lat, lon) {
//	    return
//	}
//	points := v.ValidateCoordinatesArray(raw) // drops malformed entries
//
// The package-level functions use [DefaultValidator], which logs to [slog.Default].
//
// For structured payloads, implement [Ruler]:
//
//	func (r *Reading) Rules() []*FieldRules {
//	    return []*FieldRules{
//	        Field(&r.Lat, Latitude),
//	        Field(&r.RecordedAt, Required, Timestamp),
//	    }
//	}
//
// and decode with [DecodeAndValidate]. The same rules drive OpenAPI schema
// generation through [NewSchemaRefForValue].
//
// Sub-packages:
//   - openapi – OpenAPI document helpers and JSON and YAML document handlers
//   - transform – recursive struct string transforms for normalizers
//   - config – environment configuration and logger construction
package soilcheck
