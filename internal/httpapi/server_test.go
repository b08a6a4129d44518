package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobd/soilcheck"
	"github.com/Gobd/soilcheck/internal/httpapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	env := map[string]string{"SATELLITE_DATA_TOKEN": "abc"}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := httpapi.NewRouter(httpapi.Options{
		Validator: soilcheck.New(
			soilcheck.WithLogger(discard),
			soilcheck.WithLookupEnv(func(k string) (string, bool) {
				v, ok := env[k]
				return v, ok
			}),
		),
		Logger:         discard,
		AllowedDomains: []string{"example.com"},
		RequiredEnv:    []string{"SATELLITE_DATA_TOKEN", "MAP_KEY"},
	})
	require.NoError(t, err)
	return h
}

func serve(h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(h http.Handler, path, body string) (int, []byte) {
	rec := serve(h, http.MethodPost, path, "application/json", body)
	return rec.Code, rec.Body.Bytes()
}

func get(h http.Handler, path string) (int, []byte) {
	rec := serve(h, http.MethodGet, path, "", "")
	return rec.Code, rec.Body.Bytes()
}

func TestHealth(t *testing.T) {
	h := newRouter(t)
	status, body := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestOpenAPIDocument(t *testing.T) {
	h := newRouter(t)
	status, body := get(h, "/openapi.json")
	require.Equal(t, http.StatusOK, status)

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	for _, p := range []string{"/v1/readings", "/v1/deposits", "/v1/coordinates/filter", "/v1/redirects/check", "/v1/env", "/healthz"} {
		assert.Contains(t, doc.Paths, p)
	}

	rec := serve(h, http.MethodGet, "/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/readings:")
}

func TestReadings(t *testing.T) {
	h := newRouter(t)

	t.Run("normalized", func(t *testing.T) {
		status, body := post(h, "/v1/readings", `{
			"field_name": "  North <40>  ",
			"tags": [" corn "],
			"readings": [{
				"sensor_id": "sensor-07",
				"lat": 42.704868,
				"lon": -92.658805,
				"moisture": 31.5,
				"recorded_at": "2024-05-01T06:30:00Z",
				"note": "dry <b>patch</b>"
			}]
		}`)
		require.Equal(t, http.StatusOK, status, string(body))

		var got soilcheck.ReadingBatch
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "North &lt;40&gt;", got.FieldName)
		assert.Equal(t, []string{"corn"}, got.Tags)
		assert.Equal(t, "dry &lt;b&gt;patch&lt;/b&gt;", got.Readings[0].Note)
	})

	t.Run("field errors", func(t *testing.T) {
		status, body := post(h, "/v1/readings", `{
			"field_name": "North",
			"readings": [{"sensor_id": "sensor-07", "lat": 91, "lon": 0, "recorded_at": "2024-05-01"}]
		}`)
		require.Equal(t, http.StatusBadRequest, status)

		var got httpapi.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Contains(t, got.Fields, "readings.0.lat")
	})

	t.Run("malformed json", func(t *testing.T) {
		status, body := post(h, "/v1/readings", `{"field_name":`)
		assert.Equal(t, http.StatusBadRequest, status)

		var got httpapi.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.NotEmpty(t, got.Error)
		assert.Empty(t, got.Fields)
	})

	t.Run("wrong content type", func(t *testing.T) {
		rec := serve(h, http.MethodPost, "/v1/readings", "text/plain", "{}")
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestDeposits(t *testing.T) {
	h := newRouter(t)

	status, body := post(h, "/v1/deposits", `{"amount": 3024.00, "currency": "USD", "as_of": "2024-05-01"}`)
	assert.Equal(t, http.StatusOK, status, string(body))

	status, body = post(h, "/v1/deposits", `{"amount": 3024.001, "currency": "JPY", "as_of": "2024-05-01"}`)
	require.Equal(t, http.StatusBadRequest, status)
	var got httpapi.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Contains(t, got.Fields, "amount")
	assert.Contains(t, got.Fields, "currency")

	t.Run("missing amount", func(t *testing.T) {
		status, body := post(h, "/v1/deposits", `{"currency": "USD", "as_of": "2024-05-01"}`)
		require.Equal(t, http.StatusBadRequest, status)
		var got httpapi.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]string{"amount": "is required"}, got.Fields)
	})

	t.Run("zero amount", func(t *testing.T) {
		status, body := post(h, "/v1/deposits", `{"amount": 0, "currency": "USD", "as_of": "2024-05-01"}`)
		assert.Equal(t, http.StatusOK, status, string(body))
	})

	t.Run("details url limited to allowed domains", func(t *testing.T) {
		status, body := post(h, "/v1/deposits",
			`{"amount": 1, "currency": "USD", "as_of": "2024-05-01", "details_url": "https://evil.org/q2"}`)
		require.Equal(t, http.StatusBadRequest, status)
		var got httpapi.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]string{"details_url": "must point to an allowed domain"}, got.Fields)

		status, body = post(h, "/v1/deposits",
			`{"amount": 1, "currency": "USD", "as_of": "2024-05-01", "details_url": "https://reports.example.com/q2"}`)
		assert.Equal(t, http.StatusOK, status, string(body))
	})
}

func TestFilterCoordinates(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"mixed", `[[40.7128, -74.006], [91, 0], "x", [1, 2, 3], [0, 0]]`,
			`{"coordinates":[{"lat":40.7128,"lon":-74.006},{"lat":0,"lon":0}],"dropped":3}`},
		{"not an array", `{"lat": 1}`, `{"coordinates":[],"dropped":0}`},
		{"empty", `[]`, `{"coordinates":[],"dropped":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(h, "/v1/coordinates/filter", tt.body)
			assert.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestCheckRedirect(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"allowed", `{"url": "https://maps.example.com/field/7"}`, http.StatusOK,
			`{"url":"https://maps.example.com/field/7","allowed":true}`},
		{"other domain", `{"url": "https://evil.org/"}`, http.StatusOK,
			`{"url":"https://evil.org/","allowed":false}`},
		{"script", `{"url": "javascript:alert(1)"}`, http.StatusOK,
			`{"url":"javascript:alert(1)","allowed":false}`},
		{"not a string", `{"url": 42}`, http.StatusOK, `{"url":"","allowed":false}`},
		{"missing url", `{"href": "https://example.com"}`, http.StatusBadRequest,
			`{"error":"invalid request","fields":{"url":"cannot be blank"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(h, "/v1/redirects/check", tt.body)
			assert.Equal(t, tt.status, status)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestEnv(t *testing.T) {
	h := newRouter(t)
	status, body := get(h, "/v1/env")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"isValid":false,"missing":["MAP_KEY"],"available":["SATELLITE_DATA_TOKEN"]}`, string(body))
}

func TestBodyTooLarge(t *testing.T) {
	h := newRouter(t)
	big := `{"field_name":"` + strings.Repeat("a", 2<<20) + `"}`
	status, _ := post(h, "/v1/readings", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
}
