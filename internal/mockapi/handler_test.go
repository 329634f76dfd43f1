package mockapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/apismoke/internal/registry"
)

var testEndpoints = []registry.Endpoint{
	{Name: "Listar Planos", Method: "POST", Path: "/monitora/listar_planos", Category: "Planos"},
	{Name: "Health", Method: "GET", Path: "/health", Category: "Monitoramento"},
}

func do(t *testing.T, server *httptest.Server, method, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader("{}"))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestHandlerServesRegistryRoutes(t *testing.T) {
	h := NewHandler(testEndpoints, Options{Token: "good"})

	httphelpers.WithServer(h, func(server *httptest.Server) {
		status, body := do(t, server, "POST", "/monitora/listar_planos", "good")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []interface{}{}, body["data"])

		status, _ = do(t, server, "GET", "/health", "good")
		assert.Equal(t, http.StatusOK, status)

		assert.Equal(t, 1, h.Hits("POST /monitora/listar_planos"))
		assert.Equal(t, 1, h.Hits("GET /health"))
	})
}

func TestHandlerRejectsWrongToken(t *testing.T) {
	h := NewHandler(testEndpoints, Options{Token: "good"})

	httphelpers.WithServer(h, func(server *httptest.Server) {
		status, body := do(t, server, "POST", "/monitora/listar_planos", "bad")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "unauthorized", body["error"])

		status, _ = do(t, server, "POST", "/monitora/listar_planos", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestHandlerEmptyTokenAcceptsAnyBearer(t *testing.T) {
	h := NewHandler(testEndpoints, Options{})

	httphelpers.WithServer(h, func(server *httptest.Server) {
		status, _ := do(t, server, "POST", "/monitora/listar_planos", "whatever")
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestHandlerUnknownRoute(t *testing.T) {
	h := NewHandler(testEndpoints, Options{})

	httphelpers.WithServer(h, func(server *httptest.Server) {
		status, body := do(t, server, "POST", "/nao/existe", "x")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not found", body["error"])

		status, _ = do(t, server, "DELETE", "/health", "x")
		assert.Equal(t, http.StatusMethodNotAllowed, status)
	})
}

func TestHandlerPrefixAndStatusOverride(t *testing.T) {
	h := NewHandler(testEndpoints, Options{
		PathPrefix: "/api/v1.0/",
		Status:     map[string]int{"GET /health": http.StatusInternalServerError},
	})

	httphelpers.WithServer(h, func(server *httptest.Server) {
		status, _ := do(t, server, "POST", "/api/v1.0/monitora/listar_planos", "x")
		assert.Equal(t, http.StatusOK, status)

		status, body := do(t, server, "GET", "/api/v1.0/health", "x")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Internal Server Error", body["error"])

		status, _ = do(t, server, "POST", "/monitora/listar_planos", "x")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestServerStartStop(t *testing.T) {
	srv := NewServer(NewHandler(testEndpoints, Options{}), ServerOptions{Addr: "127.0.0.1:0"})
	require.NoError(t, srv.Start())
	defer func() { _ = srv.Stop(context.Background()) }()

	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	resp, err := http.Get(srv.URL() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	_, err = http.Get(srv.URL() + "/health")
	assert.Error(t, err)
}
