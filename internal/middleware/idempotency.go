package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore caches responses to retried mutations. Resolving a swap
// request is a POST that clients retry on flaky connections; a client that
// sends the same Idempotency-Key twice gets the first response replayed
// instead of a second execution. Entries are scoped per caller and expire
// after the configured TTL.
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
}

// idempotencyEntry is a cached response. While the first request is still
// executing the entry is inFlight and done is open; duplicates block on done
// rather than executing again.
type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep cached responses (default 24h)
	Cleanup time.Duration // Sweep interval for expired entries (default 1h)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.sweepLoop(cfg.Cleanup)

	return store
}

// Stop stops the sweep goroutine
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// claim returns the cached entry for key, or nil after marking the key
// in-flight for this caller to execute. A key that is in-flight elsewhere
// blocks until that execution completes, then its response is returned, so
// concurrent duplicates cause exactly one execution.
func (s *IdempotencyStore) claim(key string) *idempotencyEntry {
	for {
		s.mu.Lock()
		entry, ok := s.entries[key]
		if !ok || (!entry.inFlight && entry.expiresAt.Before(time.Now())) {
			fresh := &idempotencyEntry{
				inFlight: true,
				done:     make(chan struct{}),
			}
			s.entries[key] = fresh
			s.mu.Unlock()
			return nil
		}
		if !entry.inFlight {
			s.mu.Unlock()
			return entry
		}
		wait := entry.done
		s.mu.Unlock()
		<-wait
	}
}

// complete fills in the claimed entry and releases any duplicates blocked on it.
func (s *IdempotencyStore) complete(key string, status int, headers http.Header, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[key]
	if entry == nil || !entry.inFlight {
		return
	}
	entry.status = status
	entry.headers = headers
	entry.body = body
	entry.expiresAt = time.Now().Add(s.ttl)
	entry.inFlight = false
	close(entry.done)
}

// fingerprint derives the cache key. The caller identity keeps users from
// replaying each other's responses; method, path and body keep one client key
// from colliding across different operations.
func fingerprint(caller, clientKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(caller))
	h.Write([]byte(clientKey))
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// replayRecorder captures the response so it can be cached for duplicates.
type replayRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *replayRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *replayRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func writeReplay(w http.ResponseWriter, entry *idempotencyEntry) {
	for name, values := range entry.headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}

// Idempotency returns middleware that deduplicates retried POST and PATCH
// requests carrying an Idempotency-Key header. Requests without the header
// pass through untouched.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := r.Header.Get("Idempotency-Key")
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller := GetUserID(r.Context())
			if caller == "" {
				// Unauthenticated requests fall back to the remote address
				caller = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := fingerprint(caller, clientKey, r.Method, r.URL.Path, body)

			if entry := store.claim(key); entry != nil {
				writeReplay(w, entry)
				return
			}

			rec := &replayRecorder{
				ResponseWriter: w,
				status:         http.StatusOK,
			}
			next.ServeHTTP(rec, r)

			store.complete(key, rec.status, rec.Header().Clone(), rec.body.Bytes())
		})
	}
}
