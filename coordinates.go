package soilcheck

import (
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	fnValidateCoordinates      = "ValidateCoordinates"
	fnValidateCoordinatePair   = "ValidateCoordinatePair"
	fnValidateCoordinatesArray = "ValidateCoordinatesArray"
)

// Coordinate is a validated geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Rules implements [Ruler].
func (c *Coordinate) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&c.Lat, Latitude),
		Field(&c.Lon, Longitude),
	}
}

// ValidateCoordinates reports whether lat and lon are finite numbers with lat
// in [-90, 90] and lon in [-180, 180]. Any Go numeric kind or json.Number is
// accepted; anything else is rejected.
func (v *Validator) ValidateCoordinates(lat, lon any) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateCoordinates, p, lat, lon)
			ok = false
		}
	}()
	_, ok = v.coordinate(fnValidateCoordinates, lat, lon)
	return ok
}

// ValidateCoordinatePair reports whether pair is a slice or array of exactly
// two elements that pass [Validator.ValidateCoordinates].
func (v *Validator) ValidateCoordinatePair(pair any) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateCoordinatePair, p, pair)
			ok = false
		}
	}()
	_, ok = v.pair(fnValidateCoordinatePair, pair)
	return ok
}

// ValidateCoordinatesArray filters seq down to its valid coordinate pairs,
// keeping their order. Malformed entries are dropped. A non-sequence input
// yields an empty slice. The result is never nil.
func (v *Validator) ValidateCoordinatesArray(seq any) (out []Coordinate) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateCoordinatesArray, p, seq)
			out = []Coordinate{}
		}
	}()

	items, ok := sequence(seq)
	if !ok {
		v.reject(fnValidateCoordinatesArray, ReasonShapeMismatch, slog.Any("value", seq))
		return []Coordinate{}
	}

	out = make([]Coordinate, 0, len(items))
	for i, item := range items {
		c, ok := v.pair(fnValidateCoordinatesArray, item, slog.Int("index", i))
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func (v *Validator) pair(fn string, pair any, attrs ...slog.Attr) (Coordinate, bool) {
	elems, ok := sequence(pair)
	if !ok || len(elems) != 2 {
		v.reject(fn, ReasonShapeMismatch, append(attrs, slog.Any("coordinate", pair))...)
		return Coordinate{}, false
	}
	return v.coordinate(fn, elems[0], elems[1], attrs...)
}

func (v *Validator) coordinate(fn string, lat, lon any, attrs ...slog.Attr) (Coordinate, bool) {
	la, reason := checkNumber(lat, -90, 90)
	if reason == "" {
		var lo float64
		lo, reason = checkNumber(lon, -180, 180)
		if reason == "" {
			return Coordinate{Lat: la, Lon: lo}, true
		}
	}
	v.reject(fn, reason, append(attrs, slog.Any("latitude", lat), slog.Any("longitude", lon))...)
	return Coordinate{}, false
}

// geoRule checks one axis of a coordinate.
type geoRule struct {
	min, max float64
}

var (
	// Latitude requires a finite number in [-90, 90].
	Latitude Rule = geoRule{min: -90, max: 90}

	// Longitude requires a finite number in [-180, 180].
	Longitude Rule = geoRule{min: -180, max: 180}
)

// Validate implements [Rule]. Nil pointers are skipped; pair with [Required]
// to demand a value.
func (r geoRule) Validate(value any) error {
	if _, isNil := validation.Indirect(value); isNil {
		return nil
	}
	switch _, reason := checkNumber(value, r.min, r.max); reason {
	case "":
		return nil
	case ReasonTypeMismatch:
		return errNotNumber
	case ReasonNotFinite:
		return errNotFinite
	default:
		return errOutOfRange.SetParams(map[string]any{"min": r.min, "max": r.max})
	}
}

func (r geoRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	lo, hi := r.min, r.max
	ref.Value.Min = &lo
	ref.Value.Max = &hi
	return nil
}
