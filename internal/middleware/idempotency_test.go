package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mido/loan-service/internal/models"
)

type fakeIdempotencyRepo struct {
	stored map[string]*models.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{stored: make(map[string]*models.IdempotencyKey)}
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	return f.stored[key+"|"+requestPath], nil
}

func (f *fakeIdempotencyRepo) Store(_ context.Context, idemKey *models.IdempotencyKey) error {
	f.stored[idemKey.Key+"|"+idemKey.RequestPath] = idemKey
	return nil
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		//nolint:errcheck
		w.Write([]byte(`{"id":1}`))
	})
}

func TestIdempotency(t *testing.T) {
	t.Run("repeated key replays the cached response", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		handler := Idempotency(repo, discardLogger())(countingHandler(&calls))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
			req.Header.Set("Idempotency-Key", "key-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.JSONEq(t, `{"id":1}`, rec.Body.String())
			if i == 1 {
				assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
			}
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("different keys execute independently", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		handler := Idempotency(repo, discardLogger())(countingHandler(&calls))

		for _, key := range []string{"key-1", "key-2"} {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
			req.Header.Set("Idempotency-Key", key)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
		}

		assert.Equal(t, 2, calls)
	})

	t.Run("same key on different paths executes both", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		handler := Idempotency(repo, discardLogger())(countingHandler(&calls))

		for _, path := range []string{"/api/v1/loans", "/api/v1/loans/3/payments"} {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set("Idempotency-Key", "key-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
		}

		assert.Equal(t, 2, calls)
	})

	t.Run("request without the header passes through every time", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		handler := Idempotency(repo, discardLogger())(countingHandler(&calls))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
		}

		assert.Equal(t, 2, calls)
		assert.Empty(t, repo.stored)
	})

	t.Run("GET requests are never cached", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		handler := Idempotency(repo, discardLogger())(countingHandler(&calls))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, 1, calls)
		assert.Empty(t, repo.stored)
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		calls := 0
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
		})
		handler := Idempotency(repo, discardLogger())(failing)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
			req.Header.Set("Idempotency-Key", "key-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
		}

		assert.Equal(t, 2, calls)
		assert.Empty(t, repo.stored)
	})
}

func TestRequiresIdempotency(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected bool
	}{
		{http.MethodPost, "/api/v1/loans", true},
		{http.MethodPost, "/api/v1/loans/", true},
		{http.MethodPost, "/api/v1/loans/3/payments", true},
		{http.MethodGet, "/api/v1/loans", false},
		{http.MethodPost, "/api/v1/auth/register", false},
		{http.MethodPost, "/api/v1/admin/loans/3/decision", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		assert.Equal(t, tt.expected, requiresIdempotency(req), "%s %s", tt.method, tt.path)
	}
}
