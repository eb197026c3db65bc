// Package worldlabs implements the typed client for the generation gateway.
//
// The client wraps the two remote operations the orchestrator needs: job
// submission (the capture image set goes up as multipart form data) and job
// polling. Both are stateless request/response calls; every piece of job
// state lives in the record. Errors surface the upstream body so failures
// stay diagnosable from the record's error message alone.
package worldlabs
