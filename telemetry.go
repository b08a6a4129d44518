package soilcheck

import (
	"context"
	"regexp"

	"github.com/Gobd/soilcheck/transform"
)

var sensorIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Reading is one soil sample reported by a field sensor.
type Reading struct {
	SensorID     string   `json:"sensor_id"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Moisture     float64  `json:"moisture"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	RecordedAt   string   `json:"recorded_at"`
	Note         string   `json:"note,omitempty"`
}

func (r *Reading) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&r.SensorID, Required, Length(1, 64),
			Pattern(sensorIDPattern, "letters, digits, '_', '.' and '-'"),
			Example("sensor-07")),
		Field(&r.Lat, Latitude, Example(42.704868)),
		Field(&r.Lon, Longitude, Example(-92.658805)),
		Field(&r.Moisture, Min(0), Max(100), Describe("volumetric water content, percent")),
		Field(&r.TemperatureC, Min(-50), Max(80)),
		Field(&r.RecordedAt, Required, Timestamp),
		Field(&r.Note, TextLength(0, 500), Describe("free text, HTML-escaped on input")),
	}
}

// Normalize escapes the free-text note. Surrounding whitespace is trimmed by
// the enclosing batch.
func (r *Reading) Normalize() {
	r.Note = SanitizeString(r.Note)
}

// Coordinate returns the reading's location.
func (r *Reading) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// ReadingBatch is the upload unit for one field.
type ReadingBatch struct {
	FieldName string    `json:"field_name"`
	Tags      []string  `json:"tags,omitempty"`
	Readings  []Reading `json:"readings"`
}

func (b *ReadingBatch) Rules() []*FieldRules {
	return []*FieldRules{
		Field(&b.FieldName, Required, TextLength(1, 120)),
		Field(&b.Tags, Length(0, 20), Each(TextLength(1, 40))),
		Field(&b.Readings, Required, Length(1, 1000),
			Unique(func(i int) any {
				return [2]string{b.Readings[i].SensorID, b.Readings[i].RecordedAt}
			}, "one reading per sensor and timestamp")),
	}
}

func (b *ReadingBatch) Normalize() {
	transform.StructTrimSpace(b)
	b.FieldName = SanitizeString(b.FieldName)
	for i := range b.Tags {
		b.Tags[i] = SanitizeString(b.Tags[i])
	}
}

// Coordinates returns the locations of all readings, in order.
func (b *ReadingBatch) Coordinates() []Coordinate {
	out := make([]Coordinate, len(b.Readings))
	for i := range b.Readings {
		out[i] = b.Readings[i].Coordinate()
	}
	return out
}

// DepositCurrencies are the currencies a [Deposit] may be reported in.
var DepositCurrencies = []any{"USD", "EUR", "GBP", "CAD"}

// Deposit is the expenditure figure shown on the dashboard's KPI card.
// Amount is a pointer so that a missing amount is told apart from 0.00.
type Deposit struct {
	Amount     *float64 `json:"amount"`
	Currency   string   `json:"currency"`
	AsOf       string   `json:"as_of"`
	DetailsURL string   `json:"details_url,omitempty"`
}

// Rules limits DetailsURL to the hosts in [AllowedDomains] when ctx carries
// any.
func (d *Deposit) Rules(ctx context.Context) []*FieldRules {
	return []*FieldRules{
		Field(&d.Amount, NotNil, CurrencyAmount(DefaultMinAmount, DefaultMaxAmount), Example(3024.00)),
		Field(&d.Currency, Required, In(DepositCurrencies...)),
		Field(&d.AsOf, Required, Timestamp),
		Field(&d.DetailsURL, RedirectURL(AllowedDomains(ctx)...)),
	}
}

func (d *Deposit) Normalize() {
	transform.StructTrimSpace(d)
}
