package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// ============================================================================
// Test Helpers
// ============================================================================

// countingHandler records how many times it ran and writes a canned response.
type countingHandler struct {
	calls  int32
	status int
	body   string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&h.calls, 1)
	w.Header().Set("Content-Type", "application/json")
	status := h.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(h.body))
}

func (h *countingHandler) count() int32 {
	return atomic.LoadInt32(&h.calls)
}

func newAcceptRequest(userID, idempotencyKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/requests/swap_request:1/accept", nil)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	return req
}

func newTestStore(t *testing.T, cfg IdempotencyConfig) *IdempotencyStore {
	t.Helper()
	store := NewIdempotencyStore(cfg)
	t.Cleanup(store.Stop)
	return store
}

// ============================================================================
// Replay Behavior
// ============================================================================

func TestIdempotency_AcceptRetried_ExecutesOnce(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{
		status: http.StatusNoContent,
	}
	wrapped := Idempotency(store)(handler)

	rec1 := httptest.NewRecorder()
	wrapped.ServeHTTP(rec1, newAcceptRequest("book_user:bob", "accept-once"))

	rec2 := httptest.NewRecorder()
	wrapped.ServeHTTP(rec2, newAcceptRequest("book_user:bob", "accept-once"))

	if got := handler.count(); got != 1 {
		t.Errorf("handler ran %d times, want 1", got)
	}
	if rec1.Header().Get("X-Idempotency-Replayed") != "" {
		t.Error("first response should not be marked as replayed")
	}
	if rec2.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("retry should carry X-Idempotency-Replayed: true")
	}
	if rec2.Code != http.StatusNoContent {
		t.Errorf("replayed status = %d, want %d", rec2.Code, http.StatusNoContent)
	}
}

func TestIdempotency_ReplayPreservesStatusHeadersAndBody(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{
		status: http.StatusCreated,
		body:   `{"id":"swap_request:1","status":"pending"}`,
	}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:alice", "create-req"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, newAcceptRequest("book_user:alice", "create-req"))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if rec.Body.String() != handler.body {
		t.Errorf("body = %q, want %q", rec.Body.String(), handler.body)
	}
}

func TestIdempotency_ErrorResponsesReplayToo(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{
		status: http.StatusConflict,
		body:   `{"title":"Conflict"}`,
	}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:alice", "dup"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, newAcceptRequest("book_user:alice", "dup"))

	if handler.count() != 1 {
		t.Errorf("handler ran %d times, want 1", handler.count())
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("replayed status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

// ============================================================================
// Key Scoping
// ============================================================================

func TestIdempotency_DistinctKeysExecuteSeparately(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", "key-1"))
	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", "key-2"))

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotency_SameKeyDifferentUsersExecuteSeparately(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:alice", "shared"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, newAcceptRequest("book_user:bob", "shared"))

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
	if rec.Header().Get("X-Idempotency-Replayed") != "" {
		t.Error("another user's response must not be replayed")
	}
}

func TestIdempotency_SameKeyDifferentPathsExecuteSeparately(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", "resolve"))

	reject := httptest.NewRequest(http.MethodPost, "/v1/requests/swap_request:1/reject", nil)
	reject.Header.Set("Idempotency-Key", "resolve")
	reject = reject.WithContext(context.WithValue(reject.Context(), UserIDKey, "book_user:bob"))
	wrapped.ServeHTTP(httptest.NewRecorder(), reject)

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotency_SameKeyDifferentBodiesExecuteSeparately(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	addBook := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/v1/profile/books", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "add")
		return req.WithContext(context.WithValue(req.Context(), UserIDKey, "book_user:alice"))
	}

	wrapped.ServeHTTP(httptest.NewRecorder(), addBook(`{"book_id":"1"}`))
	wrapped.ServeHTTP(httptest.NewRecorder(), addBook(`{"book_id":"2"}`))

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotency_UnauthenticatedFallsBackToRemoteAddr(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	req1 := newAcceptRequest("", "anon")
	req1.RemoteAddr = "10.0.0.1:1234"
	wrapped.ServeHTTP(httptest.NewRecorder(), req1)

	req2 := newAcceptRequest("", "anon")
	req2.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req2)

	if got := handler.count(); got != 1 {
		t.Errorf("handler ran %d times, want 1", got)
	}
	if rec.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("same remote address with same key should replay")
	}
}

// ============================================================================
// Passthrough
// ============================================================================

func TestIdempotency_GetRequestsPassThrough(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/requests", nil)
		req.Header.Set("Idempotency-Key", "list")
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotency_MissingHeaderPassesThrough(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", ""))
	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", ""))

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
}

func TestIdempotency_BodyStillReadableByHandler(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})

	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 64)
		n, _ := r.Body.Read(b)
		seen = string(b[:n])
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Idempotency(store)(handler)

	req := httptest.NewRequest(http.MethodPost, "/v1/profile/books", strings.NewReader(`{"book_id":"dune"}`))
	req.Header.Set("Idempotency-Key", "add-dune")
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "book_user:alice"))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	if seen != `{"book_id":"dune"}` {
		t.Errorf("handler saw body %q, want the original payload", seen)
	}
}

// ============================================================================
// Expiry
// ============================================================================

func TestIdempotency_ExpiredEntryExecutesAgain(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{
		TTL:     10 * time.Millisecond,
		Cleanup: time.Hour,
	})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", "stale"))

	time.Sleep(25 * time.Millisecond)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, newAcceptRequest("book_user:bob", "stale"))

	if got := handler.count(); got != 2 {
		t.Errorf("handler ran %d times, want 2", got)
	}
	if rec.Header().Get("X-Idempotency-Replayed") != "" {
		t.Error("expired entry must not be replayed")
	}
}

func TestIdempotencyStore_SweepRemovesExpiredEntries(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{
		TTL:     time.Millisecond,
		Cleanup: time.Hour,
	})
	handler := &countingHandler{}
	wrapped := Idempotency(store)(handler)

	wrapped.ServeHTTP(httptest.NewRecorder(), newAcceptRequest("book_user:bob", "old"))

	time.Sleep(5 * time.Millisecond)
	store.sweep()

	store.mu.Lock()
	remaining := len(store.entries)
	store.mu.Unlock()

	if remaining != 0 {
		t.Errorf("store holds %d entries after sweep, want 0", remaining)
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestIdempotency_ConcurrentRetries_SingleExecution(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, IdempotencyConfig{})

	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := Idempotency(store)(handler)

	const workers = 8
	statuses := make([]int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, newAcceptRequest("book_user:bob", "race"))
			statuses[i] = rec.Code
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("handler ran %d times under concurrent retries, want 1", got)
	}
	for i, status := range statuses {
		if status != http.StatusNoContent {
			t.Errorf("worker %d got status %d, want %d", i, status, http.StatusNoContent)
		}
	}
}
