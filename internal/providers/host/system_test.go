package host

import (
	"context"
	"runtime"
	"testing"

	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeQuerierReportsRuntime(t *testing.T) {
	q := NewRuntimeQuerier("", "1.2.3")

	info, err := q.SystemInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, info.Platform)
	assert.Equal(t, runtime.GOOS, info.System)
	assert.Equal(t, runtime.NumCPU(), info.CPUs)
	assert.Equal(t, "1.2.3", info.Version)
	assert.False(t, info.QueriedAt.IsZero())
}

func TestRuntimeQuerierPlatformOverride(t *testing.T) {
	info, err := NewRuntimeQuerier("ios", "").SystemInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ios", info.Platform)
}

func TestRuntimeQuerierCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRuntimeQuerier("", "").SystemInfo(ctx)
	require.Error(t, err)
	assert.Equal(t, apperr.HostQueryFailed, apperr.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemQuerierFunc(t *testing.T) {
	q := SystemQuerierFunc(func(context.Context) (*SystemInfo, error) {
		return &SystemInfo{Platform: "android"}, nil
	})

	info, err := q.SystemInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "android", info.Platform)
}
