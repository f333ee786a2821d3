package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	level int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &config{}
	err := Apply(cfg,
		NoError(func(c *config) { c.level = 6 }),
		New(func(c *config) error {
			c.name = "deflate"
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, 6, cfg.level)
	require.Equal(t, "deflate", cfg.name)
}

func TestApply_Error(t *testing.T) {
	boom := errors.New("bad option")
	cfg := &config{}
	err := Apply(cfg,
		New(func(c *config) error { return boom }),
		NoError(func(c *config) { c.level = 1 }),
	)
	require.ErrorIs(t, err, boom)
	require.Zero(t, cfg.level) // later options not applied
}
