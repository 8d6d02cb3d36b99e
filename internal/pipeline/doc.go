// Package pipeline drives one review session through compile, preview and submit.
// It is structured into small files by concern:
//
//   - pipeline.go: core Pipeline type, constructor, session editing.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Notice, Artifact and the Snapshot projection.
//   - result.go: the tagged Result each attempt produces, and Op handles.
//   - compile.go / submit.go: the two asynchronous attempts.
//   - transition.go: the single place where a Result becomes a state change.
//   - reset.go: Cancel, Reset and Close.
//   - status_report.go: Snapshot/Status/Preview read projections.
//   - events.go, eventpub_*.go: lifecycle events.
//   - metrics.go: Prometheus instrumentation.
//
// Concurrency model: every public method takes the pipeline mutex briefly; merge and
// submit work runs on a goroutine per attempt. Each attempt owns a context (its
// cancellation token) and a generation number. Completion is applied only if the
// generation still matches, so a Reset or a newer attempt silently discards it.
package pipeline
