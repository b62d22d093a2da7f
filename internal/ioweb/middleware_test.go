package ioweb_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnames/flasky/internal/ioweb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var seen string
	h := ioweb.RequestLogger(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = ioweb.RequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

	t.Run("new id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(ioweb.HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ioweb.HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(ioweb.HeaderRequestID))
		assert.Equal(t, "abc-123", seen)
	})
}
