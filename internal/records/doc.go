// Package records persists capture records in SQLite and defines their
// lifecycle types.
//
// A Record is the durable unit representing one captured object: its input
// image set, generation status, the remote operation handle, and the binary
// assets materialized when generation succeeds. The Store is a pure
// persistence boundary: it validates nothing about record shape and always
// writes full replacements so readers never observe partial updates.
//
// Treat this package as the single source of truth for record semantics; when
// you add statuses or fields, update schema.sql and bump schemaVersion.
package records
