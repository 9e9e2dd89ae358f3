package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	h := NewNop[int]()

	require.NotNil(t, h.OnFirstConnected)
	require.NotNil(t, h.OnConnected)
	require.NotNil(t, h.OnDisconnected)
	require.NotNil(t, h.OnLastDisconnected)

	ctx := context.Background()
	require.NoError(t, h.OnFirstConnected(ctx, nil))
	require.NoError(t, h.OnConnected(ctx, nil))
	require.NoError(t, h.OnDisconnected(ctx, nil))
	require.NoError(t, h.OnLastDisconnected(ctx))
}
