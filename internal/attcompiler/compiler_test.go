package attcompiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/attcompiler"
	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// A tiny three-arc "cat" -> "gat" FST in AT&T form: state 0 --c:g--> 1
// --a:a--> 2 --t:t--> 3 (final).
const catSource = "0\t1\tc\tg\n" +
	"1\t2\ta\ta\n" +
	"2\t3\tt\tt\n" +
	"3\n"

func TestParseBuildsReachableFinal(t *testing.T) {
	alph := symbol.New()
	g, err := attcompiler.Parse(strings.NewReader(catSource), alph, false)
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestParseRejectsEmptyFile(t *testing.T) {
	alph := symbol.New()
	_, err := attcompiler.Parse(strings.NewReader(""), alph, false)
	require.ErrorIs(t, err, attcompiler.ErrMalformedSource)
}

func TestParseRejectsSingleColumnFirstLine(t *testing.T) {
	alph := symbol.New()
	_, err := attcompiler.Parse(strings.NewReader("0\n1\t2\tc\tg\n"), alph, false)
	require.ErrorIs(t, err, attcompiler.ErrMalformedSource)
}

func TestExtractWordTransducerAcceptsCat(t *testing.T) {
	alph := symbol.New()
	g, err := attcompiler.Parse(strings.NewReader(catSource), alph, false)
	require.NoError(t, err)

	tr := attcompiler.Extract(g, attcompiler.KindWord)
	require.Greater(t, tr.Size(), 1)
	require.NotEmpty(t, tr.Finals)
}

func TestParseWithMultiCharTag(t *testing.T) {
	alph := symbol.New()
	src := "0\t1\tc\tg\n" +
		"1\t2\t<n>\t<n>\n" +
		"2\n"
	g, err := attcompiler.Parse(strings.NewReader(src), alph, false)
	require.NoError(t, err)
	require.Greater(t, alph.NumSymbols(), 0)

	tr := attcompiler.Extract(g, attcompiler.KindWord)
	require.NotNil(t, tr)
}

func TestParseReadRLSwapsColumns(t *testing.T) {
	alph := symbol.New()
	// in RL mode, column 2 is lower and column 3 is upper
	src := "0\t1\tg\tc\n1\n"
	g, err := attcompiler.Parse(strings.NewReader(src), alph, true)
	require.NoError(t, err)
	require.NotNil(t, g)

	// tag 0 is the epsilon pair Parse registers first; tag 1 is the arc
	upper, lower, ok := alph.Decode(symbol.EdgeTag(1))
	require.True(t, ok)
	require.Equal(t, symbol.Code('c'), upper)
	require.Equal(t, symbol.Code('g'), lower)
}
