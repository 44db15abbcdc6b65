package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/console/pkg/config"
)

type serverTestConfig struct {
	Addr    string        `env:"TEST_SERVER_ADDR" envDefault:":9090"`
	Timeout time.Duration `env:"TEST_SERVER_TIMEOUT" envDefault:"15s"`
}

type requiredTestConfig struct {
	Secret string `env:"TEST_UNSET_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg serverTestConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
	})

	t.Run("returns cached copy on repeated load", func(t *testing.T) {
		var first serverTestConfig
		require.NoError(t, config.Load(&first))

		// Env changes after the first load must not be observed.
		t.Setenv("TEST_SERVER_ADDR", ":7070")

		var second serverTestConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Addr, second.Addr)
	})

	t.Run("fails on missing required variable", func(t *testing.T) {
		var cfg requiredTestConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[serverTestConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
