package trim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
	"github.com/lttoolbox-go/lttb/internal/trim"
)

// buildMono compiles a two-word analyser: "cat" -> <n>, "dog" -> <n>.
func buildMono() *codec.Dictionary {
	alph := symbol.New()
	n := alph.Include("<n>")

	tr := transducer.New()
	c1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'c'), tr.Initial, 0)
	c2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), c1, 0)
	c3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), c2, 0)
	c4 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, n), c3, 0)
	tr.SetFinal(c4, 0)

	d1 := tr.InsertNewSingleTransduction(alph.Pair('d', 'd'), tr.Initial, 0)
	d2 := tr.InsertNewSingleTransduction(alph.Pair('o', 'o'), d1, 0)
	d3 := tr.InsertNewSingleTransduction(alph.Pair('g', 'g'), d2, 0)
	d4 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, n), d3, 0)
	tr.SetFinal(d4, 0)

	return &codec.Dictionary{
		Alphabet: alph,
		Sections: []codec.Section{{Name: "main@standard", Trie: tr}},
	}
}

// buildBi compiles a bilingual dictionary that only translates "cat<n>".
func buildBi() *codec.Dictionary {
	alph := symbol.New()
	n := alph.Include("<n>")

	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'g'), tr.Initial, 0)
	s2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), s1, 0)
	s3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), s2, 0)
	s4 := tr.InsertNewSingleTransduction(alph.Pair(n, n), s3, 0)
	tr.SetFinal(s4, 0)

	return &codec.Dictionary{
		Alphabet: alph,
		Sections: []codec.Section{{Name: "main@standard", Trie: tr}},
	}
}

func TestTrimKeepsOnlyTranslatedEntries(t *testing.T) {
	mono := buildMono()
	bi := buildBi()

	out, err := trim.Trim(context.Background(), mono, bi)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Greater(t, out[0].Trie.Size(), 0)
}

func TestTrimEmptyResultIsAnError(t *testing.T) {
	mono := buildMono()

	biAlph := symbol.New()
	biTr := transducer.New()
	x1 := biTr.InsertNewSingleTransduction(biAlph.Pair('x', 'x'), biTr.Initial, 0)
	biTr.SetFinal(x1, 0)
	bi := &codec.Dictionary{
		Alphabet: biAlph,
		Sections: []codec.Section{{Name: "main@standard", Trie: biTr}},
	}

	_, err := trim.Trim(context.Background(), mono, bi)
	require.ErrorIs(t, err, trim.ErrEmptyTrim)
}
