package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caterinaurban/lyra/analysis/absint"
	"github.com/caterinaurban/lyra/analysis/domains/interval"
	"github.com/caterinaurban/lyra/analysis/semantics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lyra.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestDefault(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Validate())
	assert.Equal(t, absint.DefaultNarrowingPasses, opts.NarrowingPasses)
	assert.Zero(t, opts.WideningDelay)

	dir, err := opts.Dir()
	require.NoError(t, err)
	assert.Equal(t, semantics.Forward, dir)

	iopts, err := opts.Interpreter()
	require.NoError(t, err)
	_, err = absint.New(semantics.Semantics[interval.State]{}, iopts...)
	assert.NoError(t, err)
}

func TestDomainDirection(t *testing.T) {
	opts := Default()
	opts.Domain = Liveness
	require.NoError(t, opts.Validate())
	dir, err := opts.Dir()
	require.NoError(t, err)
	assert.Equal(t, semantics.Backward, dir)

	opts.Domain = Sign
	dir, err = opts.Dir()
	require.NoError(t, err)
	assert.Equal(t, semantics.Forward, dir)
}

func TestLoad(t *testing.T) {
	opts, err := Load(write(t, `
domain = "liveness"
widening_delay = 3
no_colorize = true
`))
	require.NoError(t, err)

	assert.Equal(t, Liveness, opts.Domain)
	assert.Equal(t, 3, opts.WideningDelay)
	assert.True(t, opts.NoColorize)
	assert.Equal(t, absint.DefaultMaxIterations, opts.MaxIterations)

	dir, err := opts.Dir()
	require.NoError(t, err)
	assert.Equal(t, semantics.Backward, dir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"UnknownKey", `widen = 2`, ErrUnknownKey},
		{"UnknownDomain", `domain = "octagon"`, ErrUnknownDomain},
		{"UnknownDirection", `direction = "sideways"`, ErrUnknownDirection},
		{"ForwardLiveness", "domain = \"liveness\"\ndirection = \"forward\"", ErrInvalid},
		{"NegativeNarrowing", `narrowing_passes = -1`, ErrInvalid},
		{"NoIterations", `max_iterations = 0`, ErrInvalid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(write(t, test.src))
			assert.ErrorIs(t, err, test.err)
		})
	}

	t.Run("Syntax", func(t *testing.T) {
		_, err := Load(write(t, `domain = `))
		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
