package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bararan/swapandread/pkg/jwt"
)

// ============================================================================
// Mock TokenValidator
// ============================================================================

type mockValidator struct {
	validateFunc func(token string) (*jwt.Claims, error)
}

func (m *mockValidator) Validate(token string) (*jwt.Claims, error) {
	return m.validateFunc(token)
}

// successValidator returns valid claims for any token
func successValidator(userID, username string) *mockValidator {
	return &mockValidator{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return &jwt.Claims{
				UserID:   userID,
				Username: username,
			}, nil
		},
	}
}

// errorValidator returns the specified error
func errorValidator(err error) *mockValidator {
	return &mockValidator{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return nil, err
		},
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestRequest(authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

// captureHandler captures the request context for inspection
type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

// ============================================================================
// Auth() Middleware Tests
// ============================================================================

func TestAuth_MissingAuthorizationHeader_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := successValidator("book_user:123", "alice")
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("") // No auth header
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_InvalidHeaderFormat_NoBearerPrefix_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := successValidator("book_user:123", "alice")
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Basic sometoken") // Wrong scheme
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_InvalidHeaderFormat_OnlyBearer_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := successValidator("book_user:123", "alice")
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer") // No token
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_ValidToken_SetsContext_CallsNext(t *testing.T) {
	t.Parallel()
	validator := successValidator("book_user:123", "alice")
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer valid-token")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !handler.called {
		t.Error("handler should have been called")
	}

	// Check context values
	if GetUserID(handler.ctx) != "book_user:123" {
		t.Errorf("expected UserID 'book_user:123', got %q", GetUserID(handler.ctx))
	}
	if GetUsername(handler.ctx) != "alice" {
		t.Errorf("expected Username 'alice', got %q", GetUsername(handler.ctx))
	}
}

func TestAuth_ValidToken_CaseInsensitiveBearer(t *testing.T) {
	t.Parallel()
	validator := successValidator("book_user:123", "alice")
	middleware := Auth(validator)
	handler := &captureHandler{}

	// Test lowercase "bearer"
	req := newTestRequest("bearer valid-token")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !handler.called {
		t.Error("handler should have been called")
	}
}

func TestAuth_ExpiredToken_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := errorValidator(jwt.ErrTokenExpired)
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer expired-token")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_InvalidSignature_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := errorValidator(jwt.ErrInvalidSignature)
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer invalid-signature")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_GenericError_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	validator := errorValidator(jwt.ErrInvalidToken)
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer bad-token")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestAuth_SetsClaims_InContext(t *testing.T) {
	t.Parallel()
	expectedClaims := &jwt.Claims{
		UserID:   "book_user:456",
		Username: "bob",
		Subject:  "book_user:456",
	}
	validator := &mockValidator{
		validateFunc: func(token string) (*jwt.Claims, error) {
			return expectedClaims, nil
		},
	}
	middleware := Auth(validator)
	handler := &captureHandler{}

	req := newTestRequest("Bearer valid-token")
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	claims := GetClaims(handler.ctx)
	if claims == nil {
		t.Fatal("expected claims in context")
	}
	if claims.UserID != expectedClaims.UserID {
		t.Errorf("UserID: expected %q, got %q", expectedClaims.UserID, claims.UserID)
	}
	if claims.Username != expectedClaims.Username {
		t.Errorf("Username: expected %q, got %q", expectedClaims.Username, claims.Username)
	}
}

// ============================================================================
// Context Helper Tests
// ============================================================================

func TestGetUserID_Present_ReturnsValue(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), UserIDKey, "book_user:999")

	result := GetUserID(ctx)

	if result != "book_user:999" {
		t.Errorf("expected 'book_user:999', got %q", result)
	}
}

func TestGetUserID_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	result := GetUserID(ctx)

	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestGetUserID_WrongType_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), UserIDKey, 12345) // Wrong type

	result := GetUserID(ctx)

	if result != "" {
		t.Errorf("expected empty string for wrong type, got %q", result)
	}
}

func TestGetUsername_Present_ReturnsValue(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), UsernameKey, "alice")

	result := GetUsername(ctx)

	if result != "alice" {
		t.Errorf("expected 'alice', got %q", result)
	}
}

func TestGetUsername_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	result := GetUsername(ctx)

	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestGetClaims_Present_ReturnsClaims(t *testing.T) {
	t.Parallel()
	expectedClaims := &jwt.Claims{
		UserID:   "book_user:123",
		Username: "alice",
	}
	ctx := context.WithValue(context.Background(), ClaimsKey, expectedClaims)

	result := GetClaims(ctx)

	if result == nil {
		t.Fatal("expected claims, got nil")
	}
	if result.UserID != expectedClaims.UserID {
		t.Errorf("expected UserID %q, got %q", expectedClaims.UserID, result.UserID)
	}
}

func TestGetClaims_Missing_ReturnsNil(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	result := GetClaims(ctx)

	if result != nil {
		t.Errorf("expected nil, got %+v", result)
	}
}

func TestGetClaims_WrongType_ReturnsNil(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), ClaimsKey, "not claims") // Wrong type

	result := GetClaims(ctx)

	if result != nil {
		t.Errorf("expected nil for wrong type, got %+v", result)
	}
}
