// Package services defines the failure taxonomy shared by keepsake's remote
// collaborators and the generation orchestrator.
//
// Sentinel marker errors classify failures (configuration, validation,
// upstream rejection, transport, remote job failure, timeout) and Wrap tags
// errors with a marker plus component context so callers can both render a
// readable message and branch on the kind with errors.Is.
package services
