package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookthreads/config"

	"github.com/stretchr/testify/require"
)

func TestNewApp_MemoryStorage(t *testing.T) {
	a, err := NewApp(context.Background(), config.Config{
		StorageType: config.StorageMemory,
		HTTP:        config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_UnknownStorage(t *testing.T) {
	_, err := NewApp(context.Background(), config.Config{StorageType: "redis"})
	require.ErrorContains(t, err, "unknown storage type")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := NewApp(context.Background(), config.Config{
		StorageType: config.StorageMemory,
		HTTP:        config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
