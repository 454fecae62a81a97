package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// fakeHost 模拟宿主能力
type fakeHost struct {
	registered  []Descriptor
	registerErr error
	calls       []string
}

func (h *fakeHost) RegisterTool(_ context.Context, d Descriptor) error {
	if h.registerErr != nil {
		return h.registerErr
	}
	h.registered = append(h.registered, d)
	return nil
}

func (h *fakeHost) ExecuteTool(ctx context.Context, name string, params Params) (Result, error) {
	h.calls = append(h.calls, name)
	for _, d := range h.registered {
		if d.Name == name {
			return d.Execute(ctx, params)
		}
	}
	return Result{"score": 10.0, "source": "native"}, nil
}

type fixedMode model.ExecutionMode

func (m fixedMode) Get(context.Context) model.ExecutionMode { return model.ExecutionMode(m) }

type fakeAnalyzer struct {
	res   *model.AnalysisResult
	err   error
	calls int
	demo  []bool
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ string, demo bool) (*model.AnalysisResult, error) {
	a.calls++
	a.demo = append(a.demo, demo)
	return a.res, a.err
}

func TestSimulated_Deterministic(t *testing.T) {
	sim := NewSimulated(0)
	ctx := context.Background()

	for _, entity := range []string{"X", "Acme", ""} {
		r, err := sim.ExecuteTool(ctx, AnalyzeFinancials, Params{"entity": entity})
		require.NoError(t, err)
		assert.Equal(t, 72.0, r["score"])
		assert.Equal(t, 12e9, r["market_cap"])
		assert.Equal(t, model.SourceSimulated, r["source"])
	}

	r, err := sim.ExecuteTool(ctx, CheckFounders, Params{"entity": "X"})
	require.NoError(t, err)
	assert.Equal(t, Result{"score": 78.0, "reliability": 78.0, "past_exits": 2.0, "source": model.SourceSimulated}, r)

	r, err = sim.ExecuteTool(ctx, GetSocialSentiment, Params{"entity": "X"})
	require.NoError(t, err)
	assert.Equal(t, "BULLISH", r["sentiment"])
	assert.Equal(t, 69.0, r["intensity"])

	r, err = sim.ExecuteTool(ctx, "unknown_tool", Params{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, true, r["ok"])
	assert.Equal(t, Params{"a": 1}, r["params"])
}

func TestSimulated_Delay(t *testing.T) {
	sim := NewSimulated(30 * time.Millisecond)
	start := time.Now()
	_, err := sim.ExecuteTool(context.Background(), AnalyzeFinancials, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSimulated(time.Hour).ExecuteTool(ctx, AnalyzeFinancials, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulated_RegisterDoesNotExecute(t *testing.T) {
	sim := NewSimulated(0)
	called := false
	require.NoError(t, sim.RegisterTool(context.Background(), Descriptor{
		Name: AnalyzeFinancials,
		Execute: func(context.Context, Params) (Result, error) {
			called = true
			return Result{"score": 1.0}, nil
		},
	}))
	r, err := sim.ExecuteTool(context.Background(), AnalyzeFinancials, nil)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 72.0, r["score"])
	require.Len(t, sim.Tools(), 1)
}

func TestDispatcher_ProbesAtCallTime(t *testing.T) {
	var host Host
	d := NewDispatcher(func() Host { return host }, NewSimulated(0))
	ctx := context.Background()

	assert.True(t, d.Simulated())
	r, err := d.ExecuteTool(ctx, AnalyzeFinancials, nil)
	require.NoError(t, err)
	assert.Equal(t, model.SourceSimulated, r["source"])

	fh := &fakeHost{}
	host = fh
	assert.False(t, d.Simulated())
	r, err = d.ExecuteTool(ctx, AnalyzeFinancials, nil)
	require.NoError(t, err)
	assert.Equal(t, "native", r["source"])
	assert.Equal(t, []string{AnalyzeFinancials}, fh.calls)
	assert.Nil(t, d.Tools())
}

func TestDispatcher_NilProbe(t *testing.T) {
	d := NewDispatcher(nil, nil)
	assert.True(t, d.Simulated())
	assert.True(t, NewDispatcher(StaticHost(nil), NewSimulated(0)).Simulated())
}

func TestRegisterSignalTools_SimulationShortCircuits(t *testing.T) {
	ctx := context.Background()
	host := &fakeHost{}
	analyzer := &fakeAnalyzer{}
	require.NoError(t, RegisterSignalTools(ctx, NewNative(host), fixedMode(model.ModeSimulation), analyzer))
	require.Len(t, host.registered, 3)
	assert.Equal(t, []string{"entity"}, host.registered[0].Parameters.Required)

	r, err := host.ExecuteTool(ctx, AnalyzeFinancials, Params{"entity": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, Result{"score": 74.0, "market_cap": 9.3e9, "source": model.SourceToolSim}, r)

	r, err = host.ExecuteTool(ctx, CheckFounders, Params{"entity": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 82.0, r["reliability"])

	r, err = host.ExecuteTool(ctx, GetSocialSentiment, Params{"entity": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "NEUTRAL", r["sentiment"])
	assert.Equal(t, 61.0, r["score"])

	assert.Zero(t, analyzer.calls)
}

func TestRegisterSignalTools_BackendMode(t *testing.T) {
	ctx := context.Background()
	host := &fakeHost{}
	analyzer := &fakeAnalyzer{res: &model.AnalysisResult{
		Financials: model.SignalReport{"score": 55.0},
		Founders:   model.SignalReport{"reliability": 66.0},
	}}
	require.NoError(t, RegisterSignalTools(ctx, NewNative(host), fixedMode(model.ModeBackend), analyzer))

	r, err := host.ExecuteTool(ctx, AnalyzeFinancials, Params{"entity": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, Result{"score": 55.0}, r)

	r, err = host.ExecuteTool(ctx, GetSocialSentiment, Params{"entity": "Acme"})
	require.NoError(t, err)
	assert.Empty(t, r)

	assert.Equal(t, []bool{false, false}, analyzer.demo)

	_, err = host.ExecuteTool(ctx, CheckFounders, Params{})
	assert.Error(t, err)

	analyzer.err = errors.New("502")
	_, err = host.ExecuteTool(ctx, CheckFounders, Params{"entity": "Acme"})
	assert.Error(t, err)
}

func TestRegisterSignalTools_HostFailure(t *testing.T) {
	host := &fakeHost{registerErr: errors.New("host refused")}
	err := RegisterSignalTools(context.Background(), NewNative(host), fixedMode(model.ModeBackend), &fakeAnalyzer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), AnalyzeFinancials)
}
