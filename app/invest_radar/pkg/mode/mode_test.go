package mode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

type brokenStore struct{ kv.Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestSelector(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := NewSelector(store)

	assert.Equal(t, model.ModeBackend, s.Get(ctx))

	require.NoError(t, s.Set(ctx, model.ModeSimulation))
	assert.Equal(t, model.ModeSimulation, s.Get(ctx))

	require.NoError(t, s.Set(ctx, model.ModeBackend))
	assert.Equal(t, model.ModeBackend, s.Get(ctx))

	assert.Error(t, s.Set(ctx, "turbo"))
	assert.Equal(t, model.ModeBackend, s.Get(ctx))
}

func TestSelector_UnrecognizedValueIsBackend(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, "sim"))
	assert.Equal(t, model.ModeBackend, NewSelector(store).Get(ctx))
}

func TestSelector_ReadErrorIsBackend(t *testing.T) {
	assert.Equal(t, model.ModeBackend, NewSelector(brokenStore{}).Get(context.Background()))
}
