// Package assets materializes remote binary assets into memory so they can
// be attached to a record and persisted locally.
package assets
