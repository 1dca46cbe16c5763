// Package repository contains the data access layer. Sentinel errors let
// handlers map failures onto the HTTP error taxonomy without inspecting
// driver messages.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist (or must appear not to
// exist to the caller).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-constraint conflicts, such as an email
// or a lexicon label that already exists.
var ErrDuplicate = errors.New("duplicate")

// ErrForbidden is returned when a repository-level ownership check fails.
var ErrForbidden = errors.New("forbidden")

// ErrVersionConflict is returned when a document save carries an expected
// version that no longer matches the stored one.
var ErrVersionConflict = errors.New("version conflict")

// isDuplicateKey detects the MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
