// Package postgres implements the store interfaces on PostgreSQL.
// Tasks persist their embedded subtask collection in a JSONB column so a
// task write, subtask replacement included, is a single-row atomic
// operation.
package postgres
