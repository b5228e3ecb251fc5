package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"riascript/engine"
)

func TestRegistryInitGetShutdown(t *testing.T) {
	reg := engine.NewRegistry()
	cfg := engine.Config{TempDir: t.TempDir(), WorkDir: t.TempDir()}

	h, err := reg.Init(cfg, engine.DefaultDeps(cfg))
	require.NoError(t, err)

	got, ok := reg.Get(h)
	require.True(t, ok)
	require.NotNil(t, got)

	require.NoError(t, reg.Shutdown(h))

	_, ok = reg.Get(h)
	require.False(t, ok)
}

func TestRegistryShutdownUnknownHandleFails(t *testing.T) {
	reg := engine.NewRegistry()
	err := reg.Shutdown(engine.Handle(999))
	require.Error(t, err)
}

func TestRegistryHandlesAreDistinct(t *testing.T) {
	reg := engine.NewRegistry()
	cfg := engine.Config{TempDir: t.TempDir(), WorkDir: t.TempDir()}

	h1, err := reg.Init(cfg, engine.DefaultDeps(cfg))
	require.NoError(t, err)
	h2, err := reg.Init(cfg, engine.DefaultDeps(cfg))
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
