// Package db carries the embedded database schema.
package db

import _ "embed"

// Schema holds the idempotent DDL for every dashboard table plus the
// decrement_stock function. Executed in full at startup.
//
//go:embed migrations/001_schema.sql
var Schema string
