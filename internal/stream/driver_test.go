package stream_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/options"
	"github.com/lttoolbox-go/lttb/internal/stream"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// buildCatDict compiles a tiny one-word cold transducer: "cat" -> "cat<n>",
// mirroring spec.md §8's scenario-1 dictionary (c|a:a|t:t then an epsilon
// arc emitting the <n> tag).
func buildCatDict(alph *symbol.Alphabet) (*symbol.Alphabet, *transexe.TransExe) {
	tr := transducer.New()
	n := alph.Include("<n>")

	c1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'c'), tr.Initial, 0)
	c2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), c1, 0)
	c3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), c2, 0)
	c4 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, n), c3, 0)
	tr.SetFinal(c4, 0)

	hot := transexe.FromTransducer(tr)
	return alph, hot
}

func newDriver(alph *symbol.Alphabet, exe *transexe.TransExe, opts options.Options) *stream.Driver {
	finals := engine.ClassifyFinals(exe, nil)
	return stream.NewDriver(alph, exe, finals, exe.Initial(), opts)
}

func TestReadAnalysisSingleWord(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatDict(alph)
	d := newDriver(alph, exe, options.Default())

	var out strings.Builder
	require.NoError(t, d.ReadAnalysis(strings.NewReader("cat"), &out))
	require.Equal(t, "^cat/cat<n>$", out.String())
}

func TestReadAnalysisCaseFoldingFirstUpper(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatDict(alph)
	d := newDriver(alph, exe, options.Default())

	var out strings.Builder
	require.NoError(t, d.ReadAnalysis(strings.NewReader("Cat"), &out))
	require.Equal(t, "^Cat/Cat<n>$", out.String())
}

func TestReadAnalysisUnknownWord(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatDict(alph)
	d := newDriver(alph, exe, options.Default())

	var out strings.Builder
	require.NoError(t, d.ReadAnalysis(strings.NewReader("dog"), &out))
	require.Equal(t, "^dog/*dog$", out.String())
}

func TestReadAnalysisPreservesBlanks(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatDict(alph)
	d := newDriver(alph, exe, options.Default())

	var out strings.Builder
	require.NoError(t, d.ReadAnalysis(strings.NewReader("cat [note] cat"), &out))
	require.Equal(t, "^cat/cat<n>$ [note] ^cat/cat<n>$", out.String())
}

func TestReadAnalysisNullFlush(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatDict(alph)
	opts := options.Default()
	opts.NullFlush = true
	d := newDriver(alph, exe, opts)

	var out strings.Builder
	require.NoError(t, d.ReadAnalysis(strings.NewReader("cat\x00dog\x00"), &out))
	require.Equal(t, "^cat/cat<n>$\x00^dog/*dog$\x00", out.String())
}

// buildCatGenDict mirrors buildCatDict with upper/lower swapped, the shape
// lt-comp's generation direction (attcompiler.Parse's readRL=true column
// swap) produces: reading a lexical form "cat<n>" as the upper side and
// emitting the bare surface "cat" as the lower side.
func buildCatGenDict(alph *symbol.Alphabet) (*symbol.Alphabet, *transexe.TransExe) {
	tr := transducer.New()
	n := alph.Include("<n>")

	c1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'c'), tr.Initial, 0)
	c2 := tr.InsertNewSingleTransduction(alph.Pair('a', 'a'), c1, 0)
	c3 := tr.InsertNewSingleTransduction(alph.Pair('t', 't'), c2, 0)
	c4 := tr.InsertNewSingleTransduction(alph.Pair(n, symbol.Epsilon), c3, 0)
	tr.SetFinal(c4, 0)

	hot := transexe.FromTransducer(tr)
	return alph, hot
}

func TestReadGenerationInverse(t *testing.T) {
	alph := symbol.New()
	alph, exe := buildCatGenDict(alph)
	d := newDriver(alph, exe, options.Default())

	var out strings.Builder
	require.NoError(t, d.ReadGeneration(strings.NewReader("^cat<n>$"), &out, stream.GenClean))
	require.Equal(t, "cat", out.String())
}
