package rediskv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := Dial(ctx, mr.Addr(), "", 0, "ir:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "investai_api_base")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "investai_api_base", "https://api.example.com"))
	got, err := mr.Get("ir:investai_api_base")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", got)

	v, err := s.Get(ctx, "investai_api_base")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", v)

	require.NoError(t, s.Delete(ctx, "investai_api_base"))
	assert.False(t, mr.Exists("ir:investai_api_base"))
}

func TestDialUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Dial(context.Background(), addr, "", 0, "")
	assert.Error(t, err)
}
