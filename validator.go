package soilcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync/atomic"
	"time"
)

// DefaultDateLayouts are the string layouts [Validator.ValidateDate] accepts
// unless [WithDateLayouts] replaces them.
var DefaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006",
}

// Validator holds the configuration shared by the predicates: the diagnostic
// sink, the base URL for relative redirects, the environment lookup and the
// date layouts. A Validator is immutable after [New] and safe for concurrent
// use.
type Validator struct {
	log     *slog.Logger
	base    *url.URL
	lookup  func(string) (string, bool)
	layouts []string
}

// Option configures a [Validator].
type Option func(*Validator)

// WithLogger sets the sink for rejection diagnostics. Nil is ignored; without
// a logger, diagnostics go to [slog.Default] at the time of the call.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithBaseURL sets the origin relative redirect targets resolve against.
// Nil and non-absolute URLs are ignored.
func WithBaseURL(u *url.URL) Option {
	return func(v *Validator) {
		if u != nil && u.IsAbs() {
			cp := *u
			v.base = &cp
		}
	}
}

// WithLookupEnv replaces [os.LookupEnv] as the environment source.
func WithLookupEnv(f func(string) (string, bool)) Option {
	return func(v *Validator) {
		if f != nil {
			v.lookup = f
		}
	}
}

// WithDateLayouts replaces [DefaultDateLayouts].
func WithDateLayouts(layouts ...string) Option {
	return func(v *Validator) {
		if len(layouts) > 0 {
			v.layouts = append([]string(nil), layouts...)
		}
	}
}

// New returns a Validator configured by opts.
func New(opts ...Option) *Validator {
	v := &Validator{
		lookup:  os.LookupEnv,
		layouts: DefaultDateLayouts,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var (
	defaultValidator atomic.Pointer[Validator]

	// quiet backs the rule layer; rule failures come back as errors so they
	// are not logged a second time.
	quiet = New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
)

func init() {
	defaultValidator.Store(New())
}

// DefaultValidator returns the Validator used by the package-level functions.
func DefaultValidator() *Validator {
	return defaultValidator.Load()
}

// SetDefaultValidator replaces the Validator used by the package-level functions.
// Nil is ignored.
func SetDefaultValidator(v *Validator) {
	if v != nil {
		defaultValidator.Store(v)
	}
}

func (v *Validator) logger() *slog.Logger {
	if v.log != nil {
		return v.log
	}
	return slog.Default()
}

// reject records a rejected input. It is the only side effect of a predicate.
func (v *Validator) reject(fn string, reason Reason, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("func", fn), slog.String("reason", string(reason)))
	all = append(all, attrs...)
	v.logger().LogAttrs(context.Background(), slog.LevelWarn, "input rejected", all...)
}

// recovered logs a panic caught inside a predicate as a rejection.
func (v *Validator) recovered(fn string, p any, inputs ...any) {
	v.reject(fn, ReasonPanic,
		slog.String("panic", fmt.Sprint(p)),
		slog.Any("input", inputs),
	)
}

// Package-level predicates delegate to [DefaultValidator].

// ValidateCoordinates reports whether lat and lon form a valid coordinate.
// See [Validator.ValidateCoordinates].
func ValidateCoordinates(lat, lon any) bool {
	return DefaultValidator().ValidateCoordinates(lat, lon)
}

// ValidateCoordinatePair reports whether pair is a valid [lat, lon] sequence.
func ValidateCoordinatePair(pair any) bool {
	return DefaultValidator().ValidateCoordinatePair(pair)
}

// ValidateCoordinatesArray returns the valid coordinate pairs in seq.
func ValidateCoordinatesArray(seq any) []Coordinate {
	return DefaultValidator().ValidateCoordinatesArray(seq)
}

// ValidateCurrencyAmount reports whether amount is a valid currency amount
// between [DefaultMinAmount] and [DefaultMaxAmount].
func ValidateCurrencyAmount(amount any) bool {
	return DefaultValidator().ValidateCurrencyAmount(amount)
}

// ValidateCurrencyAmountRange reports whether amount is a valid currency
// amount between lo and hi inclusive.
func ValidateCurrencyAmountRange(amount any, lo, hi float64) bool {
	return DefaultValidator().ValidateCurrencyAmountRange(amount, lo, hi)
}

// ValidateDate reports whether value denotes a real calendar instant.
func ValidateDate(value any) bool {
	return DefaultValidator().ValidateDate(value)
}

// SanitizeString HTML-escapes input, returning "" for non-strings.
func SanitizeString(input any) string {
	return DefaultValidator().SanitizeString(input)
}

// ValidateRedirectURL reports whether raw is a safe redirect target.
func ValidateRedirectURL(raw any, allowedDomains ...string) bool {
	return DefaultValidator().ValidateRedirectURL(raw, allowedDomains...)
}

// ValidateEnvironmentVariables partitions names into available and missing.
func ValidateEnvironmentVariables(names []string) EnvResult {
	return DefaultValidator().ValidateEnvironmentVariables(names)
}

// ValidateAPIResponse reports whether response is an object carrying every
// required field.
func ValidateAPIResponse(response any, requiredFields ...string) bool {
	return DefaultValidator().ValidateAPIResponse(response, requiredFields...)
}
