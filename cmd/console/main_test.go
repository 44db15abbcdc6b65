package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no checks is always ready", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		healthHandler(log)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("passing checks report ready", func(t *testing.T) {
		t.Parallel()

		pass := func(context.Context) error { return nil }

		w := httptest.NewRecorder()
		healthHandler(log, pass, pass)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing check reports unavailable", func(t *testing.T) {
		t.Parallel()

		pass := func(context.Context) error { return nil }
		fail := func(context.Context) error { return errors.New("backend down") }

		w := httptest.NewRecorder()
		healthHandler(log, pass, fail)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
