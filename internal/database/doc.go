// Package database provides the storage abstraction for swapandread.
//
// It defines the Database interface over SurrealDB with two query shapes:
//   - Query: multiple results (SELECT returning lists)
//   - QueryOne: a single result (SELECT by record id)
//
// # Atomicity
//
// Record-level atomicity comes from single-statement SurrealQL updates: an
// UPDATE that rewrites a book's owner array, or a DELETE ... RETURN BEFORE
// that claims a swap request, is applied as one unit and is never observable
// half-done. Multi-statement operations (duplicate-checked inserts, batched
// message delivery) are wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION via
// AtomicBatch; all statements succeed or fail together at execution time.
//
// # Error handling
//
// Sentinel errors cover the common failure cases:
//   - ErrNotFound: record does not exist
//   - ErrDuplicate: unique constraint / duplicate pending request
//   - ErrConnection: connection-level failure (transient, retryable)
//   - ErrQuery: query execution failure
//
// Check with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // request was already resolved by a concurrent caller
//	}
package database
