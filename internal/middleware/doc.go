// Package middleware provides HTTP middleware for the Swap and Read API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - RateLimit: Request rate limiting per user/IP
//   - Idempotency: Idempotent request handling for POST/PATCH
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information.
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//	username := middleware.GetUsername(r.Context())
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetUsername(ctx): Returns authenticated username
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
