package soilcheck_test

import (
	"testing"

	v "github.com/Gobd/soilcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) v.Option {
	return v.WithLookupEnv(func(k string) (string, bool) {
		val, ok := env[k]
		return val, ok
	})
}

func TestValidateEnvironmentVariables(t *testing.T) {
	env := map[string]string{
		"SATELLITE_DATA_TOKEN": "abc",
		"MAP_KEY":              "",
		"REGION":               "us-east",
	}

	tests := []struct {
		name  string
		names []string
		want  v.EnvResult
	}{
		{"all set", []string{"SATELLITE_DATA_TOKEN", "REGION"}, v.EnvResult{
			IsValid:   true,
			Missing:   []string{},
			Available: []string{"SATELLITE_DATA_TOKEN", "REGION"},
		}},
		{"empty counts as missing", []string{"MAP_KEY", "REGION", "UNSET"}, v.EnvResult{
			Missing:   []string{"MAP_KEY", "UNSET"},
			Available: []string{"REGION"},
		}},
		{"none requested", nil, v.EnvResult{
			IsValid:   true,
			Missing:   []string{},
			Available: []string{},
		}},
		{"duplicates kept", []string{"REGION", "REGION"}, v.EnvResult{
			IsValid:   true,
			Missing:   []string{},
			Available: []string{"REGION", "REGION"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, _ := capture(lookupFrom(env))
			assert.Equal(t, tt.want, val.ValidateEnvironmentVariables(tt.names))
		})
	}
}

func TestValidateEnvironmentVariables_Live(t *testing.T) {
	t.Setenv("SOILCHECK_TEST_TOKEN", "")
	val, sink := capture()

	res := val.ValidateEnvironmentVariables([]string{"SOILCHECK_TEST_TOKEN"})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"missing_env"}, sink.reasons(t))

	// Nothing is cached between calls.
	t.Setenv("SOILCHECK_TEST_TOKEN", "set")
	res = val.ValidateEnvironmentVariables([]string{"SOILCHECK_TEST_TOKEN"})
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"SOILCHECK_TEST_TOKEN"}, res.Available)
}

func TestValidateEnvironmentVariables_LookupPanics(t *testing.T) {
	val, sink := capture(v.WithLookupEnv(func(string) (string, bool) { panic("vault down") }))

	res := val.ValidateEnvironmentVariables([]string{"A", "B"})
	assert.Equal(t, v.EnvResult{Missing: []string{"A", "B"}, Available: []string{}}, res)

	recs := sink.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "panic", recs[0]["reason"])
	assert.Equal(t, "vault down", recs[0]["panic"])
}
