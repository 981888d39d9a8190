// Package service implements the business logic layer for swapandread.
//
// The central piece is ExchangeService, the coordinator for the swap
// state machine: a (book, requester) pair moves NONE -> PENDING when a
// request is created, and PENDING -> ACCEPTED / REJECTED / CANCELLED when it
// resolves. All three resolutions are terminal and delete the ledger record;
// the atomic find-and-delete in the request store is what makes concurrent
// resolutions settle on exactly one winner.
//
// Supporting services are thin: ShelfService manages a user's owned books,
// InboxService the notification inbox, CatalogService the external search,
// and AuthService accounts and sessions.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with
//     repository dependencies
//   - Services define their own repository interfaces so unit tests can
//     substitute in-memory fakes
//   - Errors are returned as sentinel errors from errors.go; handlers map
//     them to HTTP responses centrally
//   - Context is passed through for cancellation and request-scoped values
package service
