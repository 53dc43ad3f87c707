package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterUsesConfiguredAllowedOrigins(t *testing.T) {
	router := NewRouter(&Container{AllowedOrigins: "https://app.opencivics.org"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://app.opencivics.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterAllowedOriginsDefaultsToWildcard(t *testing.T) {
	router := NewRouter(&Container{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterPreflightShortCircuits(t *testing.T) {
	router := NewRouter(&Container{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/v1/quiz/questions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}
