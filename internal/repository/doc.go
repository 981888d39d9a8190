// Package repository implements the data access layer for swapandread.
//
// Three stores back the exchange workflow, each owned by exactly one
// repository:
//
//   - BookRepository: the book registry (metadata + owner set)
//   - RequestRepository: the ledger of pending swap requests
//   - MessageRepository: the outbox of resolution notifications
//
// UserRepository handles accounts and profiles for the auth boundary.
//
// # Query Patterns
//
// All database interaction is parameterized SurrealQL:
//
//   - type::record() for safe record-id handling
//   - single-statement UPDATEs for per-record atomicity (ownership transfer)
//   - DELETE ... RETURN BEFORE as atomic find-and-delete, so two concurrent
//     resolutions of the same request produce exactly one winner
//   - BEGIN/COMMIT batches (database.AtomicBatch) where two statements must
//     land together
//
// Repositories accept the database.Database interface so services can be
// tested against fakes without a running SurrealDB.
package repository
