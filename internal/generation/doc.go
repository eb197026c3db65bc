// Package generation drives the record lifecycle for remote 3D generation.
//
// The Generator owns the state machine that advances a record from draft
// through uploading and processing to ready, or to error on any failure. It
// submits the capture image set, polls the provider on a fixed cadence under
// a wall-clock deadline, selects and downloads the result assets, and
// persists a full replacement record on every transition so the store and the
// orchestrator never diverge. A per-record registry enforces single-flight:
// concurrent generation of the same record is rejected while unrelated
// records proceed independently.
package generation
