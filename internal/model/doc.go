// Package model defines domain entities and data structures for swapandread.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - Book: a catalog entry with its current set of owners (custodians)
//   - SwapRequest: a pending request for a book, from one user to one owner
//   - Message: a notification delivered to a user when a request resolves
//   - User: application user with credentials and a display profile
//
// A book with an empty owner set does not exist: the registry deletes the
// record when its last owner is removed. A swap request is never updated in
// place; resolution (accept, reject, cancel) deletes it.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type   string `json:"type"`
//	    Title  string `json:"title"`
//	    Status int    `json:"status"`
//	    Detail string `json:"detail"`
//	}
package model
