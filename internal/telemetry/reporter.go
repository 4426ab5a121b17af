package telemetry

import "log/slog"

// Reporter lets handlers record a recognized domain failure (not
// found, validation failure) as a named, countable event, independent
// of the request bracket.
type Reporter struct {
	store  *Store
	sink   Sink
	logger *slog.Logger
}

// NewReporter creates a Reporter. A nil sink disables persistence.
func NewReporter(store *Store, sink Sink, logger *slog.Logger) *Reporter {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &Reporter{store: store, sink: sink, logger: logger}
}

// Report counts the message and flushes the aggregate. It never
// returns an error: a telemetry fault must not mask or replace the
// domain error being reported. Flush failures are logged only.
func (r *Reporter) Report(message string) {
	r.store.RecordError(message)
	if err := r.sink.Flush(r.store.Snapshot()); err != nil {
		r.logger.Error("telemetry flush failed", "error", err)
	}
}
