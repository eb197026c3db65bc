package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a required credential or setting as absent.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks malformed caller input, correct and retry.
	ErrValidation = errors.New("validation error")
	// ErrUpstream marks a non-success response from the remote provider.
	ErrUpstream = errors.New("upstream error")
	// ErrTransport marks a network-level failure reaching the gateway or an asset URL.
	ErrTransport = errors.New("transport error")
	// ErrJobFailed marks a generation job the provider explicitly reported as failed.
	ErrJobFailed = errors.New("job failed")
	// ErrTimeout marks an operation that exceeded its wall-clock deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
