package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Shelf Errors =====
var (
	ErrBookIDRequired    = errors.New("book id is required")
	ErrBookTitleRequired = errors.New("book title is required")
	ErrBookNotFound      = errors.New("book not found")
)

// ===== Exchange Errors =====
var (
	ErrAlreadyOwned     = errors.New("this book is already in your collection")
	ErrBookUnavailable  = errors.New("book has no current owner")
	ErrDuplicateRequest = errors.New("you have already requested this book")
	ErrNotRequestSender = errors.New("only the requester can cancel a request")
	ErrNotRequestTarget = errors.New("only the request recipient can resolve it")
)

// ===== Catalog Errors =====
var (
	ErrSearchTitleRequired = errors.New("search title is required")
	ErrCatalogUnavailable  = errors.New("book catalog is unavailable")
)
