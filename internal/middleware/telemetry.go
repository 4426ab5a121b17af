package middleware

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/coursecat/coursecat/internal/telemetry"
)

// Telemetry brackets requests with the telemetry store. Each bracketed
// route is identified by its logical name, so parameterized routes
// aggregate under one key regardless of the parameter value.
type Telemetry struct {
	store  *telemetry.Store
	sink   telemetry.Sink
	logger *slog.Logger
}

// NewTelemetry creates the telemetry middleware factory.
func NewTelemetry(store *telemetry.Store, sink telemetry.Sink, logger *slog.Logger) *Telemetry {
	if sink == nil {
		sink = telemetry.NewNoopSink()
	}
	return &Telemetry{store: store, sink: sink, logger: logger}
}

// Route returns a middleware that records request count and elapsed
// time for the named route and flushes the aggregate after the
// response. The span opened by Tracer is renamed from the raw method
// to the logical route name.
//
// The end-of-request bookkeeping runs in a deferred block, so the
// start/end pairing holds on every exit path, including a panicking
// handler. A flush failure is logged and never affects the response.
func (t *Telemetry) Route(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace.SpanFromContext(r.Context()).SetName(name)

			token := t.store.RecordRequestStart(name)

			defer func() {
				t.store.RecordRequestEnd(token)
				if err := t.sink.Flush(t.store.Snapshot()); err != nil {
					t.logger.Error("telemetry flush failed", "route", name, "error", err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
