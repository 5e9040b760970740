package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Init("dev", "warn"))
	assert.False(t, Log.Desugar().Core().Enabled(-1))
	assert.True(t, Log.Desugar().Core().Enabled(1))

	require.NoError(t, Init("prod", ""))
	assert.NotNil(t, Named("serve"))

	assert.Error(t, Init("dev", "loud"))
}
