package codec_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

func TestVlenRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteVlen(&buf, v))
		got, err := codec.ReadVlen(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestSVlenRoundTripNegative(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 20, -(1 << 20)} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteSVlen(&buf, v))
		got, err := codec.ReadSVlen(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.WriteDouble(&buf, 3.140625))
	got, err := codec.ReadDouble(&buf)
	require.NoError(t, err)
	require.Equal(t, 3.140625, got)
}

func TestCodeUnitsRoundTrip(t *testing.T) {
	units := []uint16{'<', 'n', '>'}
	var buf bytes.Buffer
	require.NoError(t, codec.WriteCodeUnits(&buf, units))
	got, err := codec.ReadCodeUnits(&buf)
	require.NoError(t, err)
	require.Equal(t, units, got)
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.WriteHeader(&buf, codec.Header{Flags: codec.FlagWeightsPresent}))
	r := bufio.NewReader(&buf)
	hdr, present, err := codec.ReadHeader(r)
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, codec.FlagWeightsPresent, hdr.Flags)
}

func TestHeaderAbsentOnLegacyFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.WriteVlen(&buf, 5))
	r := bufio.NewReader(&buf)
	_, present, err := codec.ReadHeader(r)
	require.NoError(t, err)
	require.False(t, present)
}

func TestDictionaryRoundTrip(t *testing.T) {
	alph := symbol.New()
	n := alph.Include("<n>")
	tr := transducer.New()
	s1 := tr.InsertNewSingleTransduction(alph.Pair('c', 'c'), tr.Initial, 0)
	s2 := tr.InsertNewSingleTransduction(alph.Pair(symbol.Epsilon, n), s1, 0)
	tr.SetFinal(s2, 1.5)

	dict := &codec.Dictionary{
		Alphabet:   alph,
		Alphabetic: []rune("abc"),
		Sections: []codec.Section{
			{Name: "main@standard", Trie: tr},
		},
		HasWeights: true,
	}

	var buf bytes.Buffer
	require.NoError(t, codec.WriteDictionary(&buf, dict))

	got, err := codec.ReadDictionary(&buf)
	require.NoError(t, err)
	require.Equal(t, []rune("abc"), got.Alphabetic)
	require.True(t, got.HasWeights)
	require.Len(t, got.Sections, 1)
	require.Equal(t, "main@standard", got.Sections[0].Name)

	gotTr := got.Sections[0].Trie
	require.Equal(t, tr.Initial, gotTr.Initial)
	w, ok := gotTr.IsFinal(s2)
	require.True(t, ok)
	require.Equal(t, 1.5, w)

	name, ok := got.Alphabet.SymbolName(symbol.Code(-1))
	require.True(t, ok)
	require.Equal(t, "<n>", name)
}
