package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, pageURL string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`page:
  url: %q
store:
  provider: badger
  badger:
    path: %q
tools:
  sim_delay_ms: 0
log:
  level: error
`, pageURL, filepath.Join(dir, "state"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"--config", cfg}, args...), &out)
	return out.String(), err
}

func TestCLI_SimulationAnalyze(t *testing.T) {
	cfg := writeConfig(t, "file:///opt/invest/index.html")

	out, err := runCLI(t, cfg, "mode")
	require.NoError(t, err)
	assert.Equal(t, "backend\n", out)

	_, err = runCLI(t, cfg, "mode", "set", "simulation")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "mode", "get")
	require.NoError(t, err)
	assert.Equal(t, "simulation\n", out)

	out, err = runCLI(t, cfg, "analyze", "Acme")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 73.0, res["score"])
	assert.Equal(t, "WATCH", res["verdict"])
	assert.Equal(t, "OBSERVER", res["label"])

	out, err = runCLI(t, cfg, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "analyze_financials")
	assert.Contains(t, out, "get_social_sentiment")
}

func TestCLI_ModeRejectsUnknown(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := runCLI(t, cfg, "mode", "set", "turbo")
	assert.Error(t, err)
}

func TestCLI_EndpointTrust(t *testing.T) {
	cfg := writeConfig(t, "https://invest.example.com/app")

	_, err := runCLI(t, cfg, "endpoint", "set", "http://127.0.0.1:5001/")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "endpoint")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	_, err = runCLI(t, cfg, "endpoint", "set", "https://api.example.com//")
	require.NoError(t, err)
	out, err = runCLI(t, cfg, "endpoint", "get")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com\n", out)
}

func TestCLI_BackendCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"entity":"Acme","score":81,"verdict":"INVESTIR"}]}`))
	})
	mux.HandleFunc("/api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"watchlist":["Acme"]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// httptest 绑定在 127.0.0.1，只有本机页面才会保留该地址
	cfg := writeConfig(t, "http://localhost:8080/")
	_, err := runCLI(t, cfg, "endpoint", "set", srv.URL)
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, `"entity": "Acme"`)

	out, err = runCLI(t, cfg, "report", "ACME")
	require.NoError(t, err)
	assert.Contains(t, out, `"score": 81`)

	out, err = runCLI(t, cfg, "watch", "Acme")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Acme"))
}

func TestCLI_LoopbackEndpointResetOnFilePage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := writeConfig(t, "file:///opt/invest/index.html")
	_, err := runCLI(t, cfg, "endpoint", "set", srv.URL)
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001\n", out)
}

func TestCLI_AnalyzeRequiresEntity(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := runCLI(t, cfg, "analyze", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity is required")
}
