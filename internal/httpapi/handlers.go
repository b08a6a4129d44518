package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Gobd/soilcheck"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type FilterResponse struct {
	Coordinates []soilcheck.Coordinate `json:"coordinates"`
	Dropped     int                    `json:"dropped"`
}

// RedirectRequest documents the check body. The handler decodes it untyped
// so that a non-string url reaches the validator and is rejected there.
type RedirectRequest struct {
	URL string `json:"url"`
}

type RedirectResponse struct {
	URL     string `json:"url"`
	Allowed bool   `json:"allowed"`
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *server) readings(w http.ResponseWriter, r *http.Request) {
	var batch soilcheck.ReadingBatch
	if err := decode(r.Context(), w, r, &batch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *server) deposits(w http.ResponseWriter, r *http.Request) {
	var d soilcheck.Deposit
	ctx := soilcheck.WithAllowedDomains(r.Context(), s.allowed...)
	if err := decode(ctx, w, r, &d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *server) filterCoordinates(w http.ResponseWriter, r *http.Request) {
	body, err := decodeAny(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	coords := s.v.ValidateCoordinatesArray(body)
	resp := FilterResponse{Coordinates: coords}
	if items, ok := body.([]any); ok {
		resp.Dropped = len(items) - len(coords)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) checkRedirect(w http.ResponseWriter, r *http.Request) {
	body, err := decodeAny(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	obj, ok := body.(map[string]any)
	if !ok || !s.v.ValidateAPIResponse(obj, "url") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "invalid request",
			Fields: map[string]string{"url": "cannot be blank"},
		})
		return
	}
	raw, _ := obj["url"].(string)
	writeJSON(w, http.StatusOK, RedirectResponse{
		URL:     raw,
		Allowed: s.v.ValidateRedirectURL(obj["url"], s.allowed...),
	})
}

func (s *server) env(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.v.ValidateEnvironmentVariables(s.requiredEnv))
}

func decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	return soilcheck.DecodeAndValidateContext(ctx, http.MaxBytesReader(w, r.Body, maxBodyBytes), dst)
}

// decodeAny decodes an arbitrary JSON body, keeping numbers as json.Number.
func decodeAny(w http.ResponseWriter, r *http.Request) (any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch fields := soilcheck.FieldErrors(err); {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
	case fields != nil:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request", Fields: fields})
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
