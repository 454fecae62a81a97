package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "investai_api_base")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "investai_api_base", "https://api.example.com"))
	require.NoError(t, m.Set(ctx, "investai_api_base", "https://api2.example.com"))
	v, err := m.Get(ctx, "investai_api_base")
	require.NoError(t, err)
	assert.Equal(t, "https://api2.example.com", v)

	require.NoError(t, m.Delete(ctx, "investai_api_base"))
	require.NoError(t, m.Delete(ctx, "investai_api_base"))
	_, err = m.Get(ctx, "investai_api_base")
	assert.ErrorIs(t, err, ErrNotFound)
}
