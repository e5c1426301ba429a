package mediator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// LoggingMiddleware logs every request with its duration. Requests that
// name an agent get an agent_id attribute on the context logger so handlers
// log with it too.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		name := RequestName(request)
		attrs := []any{"request", name}
		if id, ok := AgentIDOf(request); ok {
			attrs = append(attrs, "agent_id", id)
		}
		ctx, logger := logging.With(ctx, attrs...)

		start := time.Now()
		resp, err := next(ctx, request)
		if err != nil {
			logger.Warn("request failed", "duration", time.Since(start), "error", err)
			return resp, err
		}
		logger.Debug("request handled", "duration", time.Since(start))
		return resp, nil
	}
}

// AgentGuardMiddleware rejects requests that carry a non-positive AgentID
// before they reach a handler.
func AgentGuardMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		if id, ok := AgentIDOf(request); ok && id <= 0 {
			return nil, shared.NewValidationError("agent_id", "must be positive")
		}
		return next(ctx, request)
	}
}

// AgentIDOf extracts an int AgentID field from a request struct via reflection
func AgentIDOf(request Request) (int, bool) {
	v := reflect.ValueOf(request)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, false
	}
	field := v.FieldByName("AgentID")
	if !field.IsValid() {
		return 0, false
	}
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return int(field.Int()), true
	}
	return 0, false
}

// RequestName returns the bare type name of a request:
// "*placement.RequestMoveCommand" becomes "RequestMoveCommand"
func RequestName(request Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	full := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}
