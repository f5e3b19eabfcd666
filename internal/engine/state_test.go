package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// buildCatDog compiles a tiny two-word cold transducer: "cat" -> "gato",
// "dog" -> "perro", sharing a single initial state.
func buildCatDog(alph *symbol.Alphabet) *transducer.Transducer {
	tr := transducer.New()

	c1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'g'), tr.Initial, 0)
	c2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), c1, 0)
	c3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), c2, 0)
	c4 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, 'o'), c3, 0)
	tr.SetFinal(c4, 0)

	d1 := tr.InsertNewSingleTransduction(alph.Pair('d', 'p'), tr.Initial, 0)
	d2 := tr.InsertNewSingleTransduction(alph.Pair('o', 'e'), d1, 0)
	d3 := tr.InsertNewSingleTransduction(alph.Pair('g', 'r'), d2, 0)
	d4 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, 'r'), d3, 0)
	d5 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, 'o'), d4, 0)
	tr.SetFinal(d5, 0)

	return tr
}

func newEngine(alph *symbol.Alphabet, tr *transducer.Transducer) (*engine.State, *transexe.TransExe) {
	hot := transexe.FromTransducer(tr)
	return engine.New(alph, hot), hot
}

func TestStepWalksCatToGato(t *testing.T) {
	alph := symbol.New()
	tr := buildCatDog(alph)
	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())

	for _, r := range "cat" {
		require.NoError(t, st.Step(symbol.Code(r)))
		require.Greater(t, st.Size(), 0)
	}

	finals := hot.Finals()
	require.True(t, st.IsFinal(finals))
	out := st.FilterFinals(finals, nil, false, 0, 0, false, false)
	require.Equal(t, "gato", out)
}

func TestStepDeadEndsEmptiesFrontier(t *testing.T) {
	alph := symbol.New()
	tr := buildCatDog(alph)
	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())

	require.NoError(t, st.Step(symbol.Code('z')))
	require.Equal(t, 0, st.Size())
}

func TestStepFoldAcceptsUppercaseViaFallback(t *testing.T) {
	alph := symbol.New()
	tr := buildCatDog(alph)
	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())

	require.NoError(t, st.StepFold(symbol.Code('C'), symbol.Code('c')))
	require.Greater(t, st.Size(), 0)
}

func TestFilterFinalsCapsWeightClassesAndAnalyses(t *testing.T) {
	alph := symbol.New()
	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('a', 'x'), tr.Initial, 0)
	tr.SetFinal(s1, 1.0)
	s2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'y'), tr.Initial, 0)
	tr.SetFinal(s2, 2.0)

	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())
	require.NoError(t, st.Step(symbol.Code('a')))

	out := st.FilterFinals(hot.Finals(), nil, false, 0, 1, false, false)
	require.Equal(t, "x", out)
}

func TestPruneCompoundsRequiresBoundary(t *testing.T) {
	alph := symbol.New()
	requiredSym := alph.Include("<compound-R>")
	joinChar := symbol.Code('+')

	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('x', 'x'), tr.Initial, 0)
	tr.SetFinal(s1, 0)

	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())
	require.NoError(t, st.Step(symbol.Code('x')))
	require.Equal(t, 1, st.Size())

	st.PruneCompounds(requiredSym, joinChar, 4)
	require.Equal(t, 0, st.Size())
}

func TestPruneStatesWithForbiddenSymbol(t *testing.T) {
	alph := symbol.New()
	forbidden := alph.Include("<compound-only-L>")

	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, forbidden), tr.Initial, 0)
	tr.SetFinal(s1, 0)

	st, hot := newEngine(alph, tr)
	st.Init(hot.Initial())
	require.NoError(t, st.Step(symbol.Epsilon))

	st.PruneStatesWithForbiddenSymbol(forbidden)
	require.Equal(t, 0, st.Size())
}

func TestClassifyFinalsDefaultsToStandard(t *testing.T) {
	alph := symbol.New()
	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), tr.Initial, 0)
	tr.SetFinal(s1, 0)
	hot := transexe.FromTransducer(tr)

	sets := engine.ClassifyFinals(hot, nil)
	require.Contains(t, sets.Standard, int32(s1))
	require.Contains(t, sets.All, int32(s1))
}
