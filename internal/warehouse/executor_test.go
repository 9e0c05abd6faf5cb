package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionicpro/device-usage-reports/internal/config"
)

func TestNewExecutor_HTTP(t *testing.T) {
	t.Setenv("WAREHOUSE_DRIVER", "http")
	require.NoError(t, config.Load())

	exec, err := NewExecutor()
	require.NoError(t, err)
	assert.IsType(t, &HTTPExecutor{}, exec)
}

func TestNewExecutor_UnknownDriver(t *testing.T) {
	t.Setenv("WAREHOUSE_DRIVER", "carrier-pigeon")
	require.NoError(t, config.Load())

	_, err := NewExecutor()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
