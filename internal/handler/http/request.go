package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

// actorScope returns the caller and its resolved tenant. It writes the error
// response itself when either is missing.
func actorScope(w http.ResponseWriter, r *http.Request) (tenant.Actor, tenant.Scope, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return tenant.Actor{}, tenant.Scope{}, false
	}
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		response.HandleError(w, tenant.ErrInvalidScope)
		return tenant.Actor{}, tenant.Scope{}, false
	}
	return actor, scope, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// dispatch hands the events of a committed operation to the sinks. The
// operation already succeeded, so a failing audit sink is logged rather
// than reported to the caller.
func dispatch(ctx context.Context, dispatcher event.Dispatcher, events event.Events) {
	if events.Empty() {
		return
	}
	if err := dispatcher.Dispatch(ctx, events); err != nil {
		slog.Error("failed to dispatch events", "error", err)
	}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func getStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// dateRangeQuery reads from and to as YYYY-MM-DD.
func dateRangeQuery(r *http.Request) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	from, ok := validator.IsValidDate(r.URL.Query().Get("from"))
	if !ok {
		errs.Add("from", "from must be a date in YYYY-MM-DD format")
	}
	to, ok := validator.IsValidDate(r.URL.Query().Get("to"))
	if !ok {
		errs.Add("to", "to must be a date in YYYY-MM-DD format")
	}

	return from, to, errs.Err()
}
