// Package store defines the persistence interfaces and shared store errors.
// Implementations live under internal/platform; services depend only on the
// interfaces defined here so tests can inject fakes.
package store
