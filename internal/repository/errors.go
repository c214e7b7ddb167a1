// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Handlers
// translate this into an HTTP 404 (or 401 for identity lookups made by the
// route guard).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by user creation when the email address is
// already registered. Handlers translate this into the duplicate-email
// response of the signup endpoint.
var ErrEmailExists = errors.New("email already exists")
