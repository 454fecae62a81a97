package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/fetch"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

type staticBase string

func (s staticBase) Current(context.Context) string { return string(s) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(fetch.NewClient(staticBase(srv.URL), "", 5, nil))
}

func TestAnalyze(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "Acme & Co", r.URL.Query().Get("entity"))
		assert.Equal(t, "true", r.URL.Query().Get("demo_mode"))
		writeJSON(w, 200, map[string]any{
			"entity": "Acme & Co", "score": 64, "verdict": "OBSERVER", "reason": "backend reason",
			"financials": map[string]any{"score": 60}, "founders": map[string]any{"reliability": 70},
			"social": map[string]any{"score": 62}, "mode": "demo",
		})
	}))

	res, err := c.Analyze(context.Background(), "Acme & Co", true)
	require.NoError(t, err)
	assert.Equal(t, 64, res.Score)
	assert.Equal(t, model.VerdictWatch, res.Verdict)
	assert.Equal(t, "backend reason", res.Reason)
	assert.Equal(t, "demo", res.Mode)
}

func TestAnalyze_Error(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]any{"error": "Research failed: boom"})
	}))

	_, err := c.Analyze(context.Background(), "Acme", false)
	require.Error(t, err)
	assert.Equal(t, 500, errors.Code(err))
	assert.Equal(t, "Research failed: boom", fetch.Detail(err))
}

func TestDemoMode(t *testing.T) {
	on := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"demo_mode": true, "reddit_user_agent": "InvestAI/1.0"})
	}))
	assert.True(t, on.DemoMode(context.Background()))

	failing := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	assert.False(t, failing.DemoMode(context.Background()))

	text := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("demo_mode=true"))
	}))
	assert.False(t, text.DemoMode(context.Background()))
}

func TestSaveSettings(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in Settings
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.RedditUserAgent = "InvestAI/1.0"
		writeJSON(w, 200, in)
	}))

	out, err := c.SaveSettings(context.Background(), &Settings{DemoMode: true})
	require.NoError(t, err)
	assert.True(t, out.DemoMode)
	assert.Equal(t, "InvestAI/1.0", out.RedditUserAgent)
}

func TestPortfolioAndWatchlist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"items": []map[string]any{
			{"entity": "Zeta", "score": 80, "verdict": "INVESTIR"},
			{"entity": "Acme", "score": 50, "verdict": "FUIR"},
		}})
	})
	mux.HandleFunc("/api/watchlist", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, 200, map[string]any{"watchlist": []string{in["entity"], "Zeta"}})
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"ok": true})
	})
	c := newClient(t, mux)
	ctx := context.Background()

	items, err := c.Portfolio(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Zeta", items[0].Entity)
	assert.Equal(t, model.VerdictAvoid, items[1].Verdict)

	list, err := c.AddWatchlist(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zeta"}, list)

	assert.NoError(t, c.Health(ctx))
}
