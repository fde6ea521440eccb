// Package repository implements data access for users and recipes on top
// of database/sql. This file defines sentinel error values shared across
// repositories so that handlers can map persistence failures onto HTTP
// responses with errors.Is instead of string matching.
package repository

import "errors"

// ErrEmailExists is returned when an INSERT into users violates the
// unique email constraint. Handlers translate this into an HTTP 400
// response so callers learn the address is already registered.
var ErrEmailExists = errors.New("email already exists")
