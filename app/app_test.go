package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/testutils"
)

func TestBuildWithConfig(t *testing.T) {
	cfg := testutils.GetTestConfig()

	a, err := NewApp().WithConfig(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Equal(t, cfg, a.Config())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.DB())

	for _, table := range []string{"users", "todos", "email_verification_tokens"} {
		assert.True(t, a.DB().Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestBuildWithNilConfig(t *testing.T) {
	_, err := NewApp().WithConfig(nil).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestStartAndStop(t *testing.T) {
	cfg := testutils.GetTestConfig()

	a, err := NewApp().WithConfig(cfg).Build()
	require.NoError(t, err)

	require.NoError(t, a.Start())
	defer a.Stop()

	require.NotNil(t, a.Server())
	assert.NotEmpty(t, a.Server().Routes())
}
