package transducer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

func buildCat(alph *symbol.Alphabet) *transducer.Transducer {
	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'c'), tr.Initial, 0)
	s2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), s1, 0)
	s3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), s2, 0)
	tr.SetFinal(s3, 0)
	return tr
}

func TestInsertAndLink(t *testing.T) {
	alph := symbol.New()
	tr := buildCat(alph)
	require.Equal(t, 4, tr.Size())
	require.Equal(t, 3, tr.NumTransitions())
	w, ok := tr.IsFinal(3)
	require.True(t, ok)
	require.Equal(t, 0.0, w)
}

func TestSetFinalKeepsMinimumWeight(t *testing.T) {
	tr := transducer.New()
	tr.SetFinal(0, 5.0)
	tr.SetFinal(0, 1.0)
	tr.SetFinal(0, 3.0)
	w, ok := tr.IsFinal(0)
	require.True(t, ok)
	require.Equal(t, 1.0, w)
}

func TestUnionWith(t *testing.T) {
	alph := symbol.New()
	cat := buildCat(alph)
	dog := transducer.New()
	d1 := dog.InsertNewSingleTransduction(alph.Pair('d', 'd'), dog.Initial, 0)
	d2 := dog.InsertNewSingleTransduction(alph.Pair('o', 'o'), d1, 0)
	d3 := dog.InsertNewSingleTransduction(alph.Pair('g', 'g'), d2, 0)
	dog.SetFinal(d3, 0)

	catSize := cat.Size()
	cat.UnionWith(alph, dog)
	require.Equal(t, catSize+dog.Size()+1, cat.Size())
	require.Len(t, cat.Finals, 2)
}

func TestMinimizeCollapsesEquivalentStates(t *testing.T) {
	alph := symbol.New()
	tr := transducer.New()
	// two branches both spelling "ab" and both final with same weight
	// should minimize to a shared suffix.
	s1 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), tr.Initial, 0)
	s2 := tr.InsertNewSingleTransduction(alph.Pair('b', 'b'), s1, 0)
	tr.SetFinal(s2, 0)

	s3 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), tr.Initial, 0)
	s4 := tr.InsertNewSingleTransduction(alph.Pair('b', 'b'), s3, 0)
	tr.SetFinal(s4, 0)

	min := tr.Minimize()
	require.LessOrEqual(t, min.Size(), tr.Size())
}

func TestAppendDotStarAddsSelfLoopOnFinals(t *testing.T) {
	alph := symbol.New()
	tr := buildCat(alph)
	loop := map[symbol.EdgeTag]bool{alph.Pair('x', 'x'): true}
	tr.AppendDotStar(loop)
	_, ok := tr.Nodes[3].Out[alph.Pair('x', 'x')]
	require.True(t, ok)
}

func TestIntersectFiltersByLowerUpperMatch(t *testing.T) {
	monoAlph := symbol.New()
	mono := transducer.New()
	s1 := mono.InsertNewSingleTransduction(monoAlph.Pair('c', monoAlph.Include("<n>")), mono.Initial, 0)
	mono.SetFinal(s1, 0)

	biAlph := symbol.New()
	n := biAlph.Include("<n>")
	bi := transducer.New()
	b1 := bi.InsertNewSingleTransduction(biAlph.Pair(n, 'x'), bi.Initial, 0)
	bi.SetFinal(b1, 0)

	result := mono.Intersect(bi, monoAlph, biAlph)
	_, finalOk := result.IsFinal(seenFinalState(result))
	require.True(t, finalOk)
}

func seenFinalState(tr *transducer.Transducer) int {
	for s := range tr.Finals {
		return s
	}
	return -1
}
