package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/testutils"
)

func TestNew(t *testing.T) {
	cfg := testutils.GetTestConfig()

	srv := New(cfg, nil)

	require.NotNil(t, srv)
	require.NotNil(t, srv.Echo())
	assert.True(t, srv.Echo().HideBanner)
}

func TestShutdownBeforeStart(t *testing.T) {
	cfg := testutils.GetTestConfig()

	srv := New(cfg, nil)

	err := srv.Shutdown(context.Background())
	assert.NoError(t, err)
}
