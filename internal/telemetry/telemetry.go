// Package telemetry aggregates per-route request counts, cumulative
// processing time, and an error tally, and persists the aggregate to
// disk after every request.
package telemetry

// Snapshot is a point-in-time, JSON-serializable view of the telemetry
// aggregate. It is the unit written on every flush.
type Snapshot struct {
	RouteRequests       map[string]uint64  `json:"route_requests"`
	RouteProcessingTime map[string]float64 `json:"route_processing_time"`
	Errors              map[string]uint64  `json:"errors"`
}

// Sink persists snapshots durably.
// Implementations replace the previous document in full on each flush.
type Sink interface {
	Flush(snap Snapshot) error
}
