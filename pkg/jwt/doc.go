// Package jwt provides JSON Web Token utilities for the Swap and Read API.
//
// The jwt package handles token generation, validation, and claims
// extraction for authentication. Tokens are signed with RS256.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "swapandread.bararan.dev",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Generate(userID, username)
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// A deployment that only validates tokens can be configured with just
// PublicKeyPath.
package jwt
