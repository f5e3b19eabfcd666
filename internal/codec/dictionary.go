package codec

import (
	"bufio"
	"io"
	"unicode/utf16"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

// Section is one named transducer inside a dictionary file (e.g.
// "main@standard", "final@inconditional").
type Section struct {
	Name string
	Trie *transducer.Transducer
}

// Dictionary is everything a compiled .bin file holds: the shared alphabet,
// the alphabetic-character set classifyFinals/CharClasses needs, and the
// ordered list of transducer sections.
type Dictionary struct {
	Alphabet   *symbol.Alphabet
	Alphabetic []rune
	Sections   []Section
	HasWeights bool
}

func runesToUnits(rs []rune) []uint16 {
	return utf16.Encode(rs)
}

func unitsToRunes(units []uint16) []rune {
	return utf16.Decode(units)
}

func stringToUnits(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func unitsToString(units []uint16) string {
	return string(utf16.Decode(units))
}

// WriteDictionary serializes d to w in the format spec.md §6 describes,
// prefixed with the magic/flags header.
func WriteDictionary(w io.Writer, d *Dictionary) error {
	flags := uint64(0)
	if d.HasWeights {
		flags |= FlagWeightsPresent
	}
	if err := WriteHeader(w, Header{Flags: flags}); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	if err := WriteCodeUnits(bw, runesToUnits(d.Alphabetic)); err != nil {
		return err
	}
	if err := writeAlphabet(bw, d.Alphabet); err != nil {
		return err
	}
	if err := WriteVlen(bw, uint64(len(d.Sections))); err != nil {
		return err
	}
	for _, sec := range d.Sections {
		if err := writeSection(bw, sec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeAlphabet(bw *bufio.Writer, alph *symbol.Alphabet) error {
	if err := WriteVlen(bw, uint64(alph.NumSymbols())); err != nil {
		return err
	}
	for i := 1; i <= alph.NumSymbols(); i++ {
		name, ok := alph.SymbolName(symbol.Code(-i))
		if !ok {
			return ErrMalformedBinary
		}
		if err := WriteCodeUnits(bw, stringToUnits(name)); err != nil {
			return err
		}
	}
	if err := WriteVlen(bw, uint64(alph.NumPairs())); err != nil {
		return err
	}
	for i := 0; i < alph.NumPairs(); i++ {
		upper, lower, ok := alph.Decode(symbol.EdgeTag(i))
		if !ok {
			return ErrMalformedBinary
		}
		if err := WriteSVlen(bw, int64(upper)); err != nil {
			return err
		}
		if err := WriteSVlen(bw, int64(lower)); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(bw *bufio.Writer, sec Section) error {
	if err := WriteCodeUnits(bw, stringToUnits(sec.Name)); err != nil {
		return err
	}
	t := sec.Trie
	if err := WriteVlen(bw, uint64(t.Initial)); err != nil {
		return err
	}
	if err := WriteVlen(bw, uint64(len(t.Finals))); err != nil {
		return err
	}
	for state, weight := range t.Finals {
		if err := WriteVlen(bw, uint64(state)); err != nil {
			return err
		}
		if err := WriteDouble(bw, weight); err != nil {
			return err
		}
	}
	if err := WriteVlen(bw, uint64(len(t.Nodes))); err != nil {
		return err
	}
	for _, node := range t.Nodes {
		arcs := 0
		for _, targets := range node.Out {
			arcs += len(targets)
		}
		if err := WriteVlen(bw, uint64(arcs)); err != nil {
			return err
		}
		for tag, targets := range node.Out {
			for _, tgt := range targets {
				if err := WriteVlen(bw, uint64(tag)); err != nil {
					return err
				}
				if err := WriteVlen(bw, uint64(tgt.Dest)); err != nil {
					return err
				}
				if err := WriteDouble(bw, tgt.Weight); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ReadDictionary deserializes a dictionary file written by WriteDictionary
// (or a legacy file with no magic/flags prefix).
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	br := bufio.NewReader(r)
	hdr, present, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	units, err := ReadCodeUnits(br)
	if err != nil {
		return nil, err
	}
	d := &Dictionary{
		Alphabetic: unitsToRunes(units),
		HasWeights: present && hdr.Flags&FlagWeightsPresent != 0,
	}
	if !present {
		d.HasWeights = true // legacy files always carry weights
	}

	alph, err := readAlphabet(br)
	if err != nil {
		return nil, err
	}
	d.Alphabet = alph

	secCount, err := ReadVlen(br)
	if err != nil {
		return nil, err
	}
	d.Sections = make([]Section, secCount)
	for i := range d.Sections {
		sec, err := readSection(br, alph)
		if err != nil {
			return nil, err
		}
		d.Sections[i] = sec
	}
	return d, nil
}

func readAlphabet(br *bufio.Reader) (*symbol.Alphabet, error) {
	alph := symbol.New()

	symCount, err := ReadVlen(br)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < symCount; i++ {
		units, err := ReadCodeUnits(br)
		if err != nil {
			return nil, err
		}
		alph.Include(unitsToString(units))
	}

	pairCount, err := ReadVlen(br)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < pairCount; i++ {
		upper, err := ReadSVlen(br)
		if err != nil {
			return nil, err
		}
		lower, err := ReadSVlen(br)
		if err != nil {
			return nil, err
		}
		alph.Pair(symbol.Code(upper), symbol.Code(lower))
	}
	return alph, nil
}

func readSection(br *bufio.Reader, _ *symbol.Alphabet) (Section, error) {
	units, err := ReadCodeUnits(br)
	if err != nil {
		return Section{}, err
	}
	name := unitsToString(units)

	initial, err := ReadVlen(br)
	if err != nil {
		return Section{}, err
	}

	finalCount, err := ReadVlen(br)
	if err != nil {
		return Section{}, err
	}
	finals := make(map[int]float64, finalCount)
	for i := uint64(0); i < finalCount; i++ {
		state, err := ReadVlen(br)
		if err != nil {
			return Section{}, err
		}
		weight, err := ReadDouble(br)
		if err != nil {
			return Section{}, err
		}
		finals[int(state)] = weight
	}

	stateCount, err := ReadVlen(br)
	if err != nil {
		return Section{}, err
	}
	t := &transducer.Transducer{
		Nodes:   make([]transducer.Node, stateCount),
		Finals:  finals,
		Initial: int(initial),
	}
	for i := range t.Nodes {
		arcCount, err := ReadVlen(br)
		if err != nil {
			return Section{}, err
		}
		out := make(map[symbol.EdgeTag][]transducer.Target, arcCount)
		for j := uint64(0); j < arcCount; j++ {
			tag, err := ReadVlen(br)
			if err != nil {
				return Section{}, err
			}
			dst, err := ReadVlen(br)
			if err != nil {
				return Section{}, err
			}
			weight, err := ReadDouble(br)
			if err != nil {
				return Section{}, err
			}
			edgeTag := symbol.EdgeTag(tag)
			out[edgeTag] = append(out[edgeTag], transducer.Target{Dest: int(dst), Weight: weight})
		}
		t.Nodes[i] = transducer.Node{Out: out}
	}

	return Section{Name: name, Trie: t}, nil
}
