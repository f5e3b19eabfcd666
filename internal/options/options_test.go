package options_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/options"
)

func TestDecodeOverridesOnlyGivenFields(t *testing.T) {
	base := options.Default()
	base.MaxCompoundElements = 4

	out, err := options.Decode(base, map[string]any{
		"case_sensitive": true,
		"max_analyses":   "3", // WeaklyTypedInput: string coerces to int
	})
	require.NoError(t, err)
	require.True(t, out.CaseSensitive)
	require.Equal(t, 3, out.MaxAnalyses)
	require.Equal(t, 4, out.MaxCompoundElements)
	require.False(t, out.StrictCompat)
}
