package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/config"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/runtime"
	"github.com/lumen-ui/lumen/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:      config.ServerConfig{Host: "localhost", Port: 8120},
		Development: config.DevelopmentConfig{HotReload: true},
		Logging:     config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func testServer(t *testing.T) (*PreviewServer, *registry.ResourceRegistry) {
	t.Helper()
	reg := registry.NewResourceRegistry()
	reg.Register(&types.ComponentType{
		Name: "greeting-card",
		Kind: types.ResourceElement,
		Definition: &types.TemplateDefinition{
			Template: `<div class="card"><p text.bind="message"></p></div>`,
		},
		Bindables:   []types.BindableInfo{{Property: "message", Attribute: "message"}},
		Constructor: func() any { return map[string]any{} },
	})

	engine := runtime.NewRenderingEngine(nil, nil, nil)
	return New(testConfig(), engine, reg, nil), reg
}

func TestIndexListsElements(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `/preview/greeting-card`)
}

func TestPreviewRendersElement(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/preview/greeting-card")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-lumen-element="greeting-card"`)
	assert.Contains(t, string(body), `class="card"`)
	// Hot reload is on, so the page carries the reload script.
	assert.Contains(t, string(body), "/ws")
}

func TestPreviewUnknownElement(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/preview/not-registered")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestBroadcastReachesWebsocketClient(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the server a moment to register the connection.
	require.Eventually(t, func() bool {
		return s.hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := NewReloadEvent("updated", "greeting-card")
	s.Broadcast(ctx, event)

	_, payload, err := conn.Read(ctx)
	require.NoError(t, err)

	var got ReloadEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "greeting-card", got.Resource)
}
