package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/symbol"
)

func TestIncludeIsIdempotent(t *testing.T) {
	a := symbol.New()
	c1 := a.Include("<n>")
	c2 := a.Include("<n>")
	require.Equal(t, c1, c2)
	require.True(t, symbol.IsTag(c1))
}

func TestPairIsCachedAndTotal(t *testing.T) {
	a := symbol.New()
	n := a.Include("<n>")
	t1 := a.Pair('c', 'c')
	t2 := a.Pair('c', n)
	require.NotEqual(t, t1, t2)
	require.Equal(t, t1, a.Pair('c', 'c'))

	up, lo, ok := a.Decode(t2)
	require.True(t, ok)
	require.Equal(t, symbol.Code('c'), up)
	require.Equal(t, n, lo)
}

func TestGetSymbol(t *testing.T) {
	a := symbol.New()
	n := a.Include("<n>")
	var buf []rune
	a.GetSymbol(&buf, 'c')
	a.GetSymbol(&buf, symbol.Epsilon)
	a.GetSymbol(&buf, n)
	require.Equal(t, "c<n>", string(buf))
}

func TestGetSymbolBlankedOut(t *testing.T) {
	a := symbol.New()
	n := a.Include("<compound-R>")
	a.SetBlanked(n, true)
	var buf []rune
	a.GetSymbol(&buf, n)
	require.Empty(t, buf)
}

func TestSymbolsWithPrefix(t *testing.T) {
	a := symbol.New()
	a.Include("<vblex>")
	a.Include("<vaux>")
	a.Include("<n>")
	got := a.SymbolsWithPrefix("<v")
	require.ElementsMatch(t, []string{"<vblex>", "<vaux>"}, got)
}

func TestCreateLoopbackSymbols(t *testing.T) {
	mono := symbol.New()
	mono.Include("<n>")

	bi := symbol.New()
	n := bi.Include("<n>")
	bi.Pair('c', n)
	bi.Pair(n, 'x')

	out := make(map[symbol.EdgeTag]bool)
	mono.CreateLoopbackSymbols(out, bi, symbol.UpperSide)
	require.Len(t, out, 2) // c:c and <n>:<n>
}
