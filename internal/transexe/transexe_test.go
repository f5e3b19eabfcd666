package transexe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

func TestFromTransducerRoundTrip(t *testing.T) {
	alph := symbol.New()
	cold := transducer.New()
	s1 := cold.InsertNewSingleTransduction(alph.Pair('c', 'c'), cold.Initial, 0)
	cold.SetFinal(s1, 1.5)

	hot := transexe.FromTransducer(cold)
	require.Equal(t, 2, hot.NumStates())
	require.Equal(t, int32(0), hot.Initial())

	targets := hot.Targets(0, alph.Pair('c', 'c'))
	require.Len(t, targets, 1)
	require.Equal(t, int32(1), targets[0].Dest)

	w, ok := hot.IsFinal(1)
	require.True(t, ok)
	require.Equal(t, 1.5, w)
}
