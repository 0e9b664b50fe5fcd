// Copyright © 2019 One Concern

package postprocess

import (
	"context"
	"testing"

	"github.com/oneconcern/refmat/pkg/errors"
	"github.com/oneconcern/refmat/pkg/postprocess/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopFunc(context.Context, Env, []string, string, ...string) error {
	return nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("custom.noop", noopFunc))

	fn, err := r.Resolve("custom.noop")
	require.NoError(t, err)
	require.NotNil(t, fn)

	err = r.Register("custom.noop", noopFunc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrAlreadyRegistered))

	_, err = r.Resolve("custom.other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotRegistered))
	assert.Contains(t, err.Error(), "custom.other")

	require.Error(t, r.Register("", noopFunc))
	require.Error(t, r.Register("custom.nil", nil))

	assert.Panics(t, func() {
		r.MustRegister("custom.noop", noopFunc)
	})
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{CatName, FilterFastasName, MoveName}, Default().Names())

	for _, name := range Default().Names() {
		fn, err := Default().Resolve(name)
		require.NoError(t, err)
		require.NotNil(t, fn)
	}
}
