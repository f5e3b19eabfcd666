package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/stream"
)

func TestTokenizeRecognizesBlanksTagsAndEscapes(t *testing.T) {
	items, err := stream.Tokenize([]byte(`^cat<n>$ [note] a\<b`))
	require.NoError(t, err)

	var kinds []stream.ItemKind
	for _, it := range items {
		kinds = append(kinds, it.Kind)
	}
	require.Contains(t, kinds, stream.ItemLUStart)
	require.Contains(t, kinds, stream.ItemTag)
	require.Contains(t, kinds, stream.ItemLUEnd)
	require.Contains(t, kinds, stream.ItemBlank)

	var sawEscapedTag bool
	for _, it := range items {
		if it.Kind == stream.ItemRune && it.Rune == '<' {
			sawEscapedTag = true
		}
	}
	require.True(t, sawEscapedTag, "escaped '<' should tokenize as a literal rune, not a tag")
}

func TestTokenizeWordboundBlanks(t *testing.T) {
	items, err := stream.Tokenize([]byte(`[[coref]]he[[/]]`))
	require.NoError(t, err)
	require.Equal(t, stream.ItemWordboundOpen, items[0].Kind)

	var sawClose bool
	for _, it := range items {
		if it.Kind == stream.ItemWordboundClose {
			sawClose = true
		}
	}
	require.True(t, sawClose)
}
