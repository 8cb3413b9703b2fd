// Package repository holds the storage error contract shared by every
// persistence backend. Domain services translate these into domain errors.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create-if-absent write finds the key taken
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
