// Package middleware validates JSON request bodies against a shapecheck
// Schema. Framework adapters live in the gin and echo sub-modules.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/reoring/shapecheck"
	"github.com/reoring/shapecheck/load"
)

// DefaultMaxBodyBytes bounds the request body read by Decode.
const DefaultMaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned when the body exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// Config describes one validating endpoint.
type Config struct {
	Schema shapecheck.Schema
	// Validator runs the checks. Nil uses default options.
	Validator *shapecheck.Validator
	// Load controls body decoding. Duplicate keys are errors unless
	// Load.AllowDuplicates is set.
	Load load.Options
	// MaxBodyBytes limits the body size (0 = DefaultMaxBodyBytes).
	MaxBodyBytes int64
}

type ctxKeyValue struct{}

// ContextWithValue attaches a validated body to the context.
func ContextWithValue(ctx context.Context, v map[string]any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the validated body stored by the middleware.
func ValueFromContext(ctx context.Context) (map[string]any, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(map[string]any)
	return v, ok
}

// Decode reads a JSON body and validates it. Validation failures are returned
// as *shapecheck.Failure.
func (c Config) Decode(body io.Reader) (map[string]any, error) {
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}
	obj, err := load.Object(data, load.FormatJSON, c.Load)
	if err != nil {
		return nil, err
	}
	v := c.Validator
	if v == nil {
		v = shapecheck.New(shapecheck.Options{})
	}
	out := v.Validate(obj, c.Schema)
	if !out.Valid {
		return nil, out.Error
	}
	return out.Value, nil
}

// StatusOf maps a Decode error to an HTTP status. A malformed schema is a
// server fault; everything else is the client's.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case shapecheck.IsDefinitionError(err):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// ErrorPayload shapes a Decode error for JSON responses.
func ErrorPayload(err error) map[string]any {
	var f *shapecheck.Failure
	if errors.As(err, &f) {
		return map[string]any{"error": f}
	}
	return map[string]any{"error": map[string]any{"message": err.Error()}}
}

// Handler validates the request body before calling next. The validated
// value is available through ValueFromContext.
func Handler(c Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := c.Decode(r.Body)
		if err != nil {
			writeJSON(w, StatusOf(err), ErrorPayload(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
