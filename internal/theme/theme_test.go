package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Cleanup(func() { _ = Apply(Default) })

	require.NoError(t, Apply(Magenta))
	assert.Equal(t, ColorMagenta, Accent)

	require.NoError(t, Apply(""))
	assert.Equal(t, ColorBlue, Accent)

	assert.Error(t, Apply("neon"))
	assert.Equal(t, ColorBlue, Accent, "unknown theme leaves styles alone")
}

func TestProgressStyle(t *testing.T) {
	assert.Equal(t, ColorGreen, ProgressStyle(2, 2).GetForeground())
	assert.Equal(t, ColorYellow, ProgressStyle(1, 2).GetForeground())
	assert.Equal(t, ColorGray, ProgressStyle(0, 2).GetForeground())
	assert.Equal(t, ColorGray, ProgressStyle(0, 0).GetForeground())
}
