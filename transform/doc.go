// Package transform mutates the string fields of structs recursively. It is
// meant for [soilcheck.Normalizer] implementations that clean up decoded
// telemetry before validation.
package transform
