package stream

import (
	"fmt"
	"io"
	"strings"

	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// GenFormat selects how an unmatched lexform is rendered in generation
// mode, per the gm_* family spec.md §4.4 lists.
type GenFormat int

const (
	GenClean GenFormat = iota
	GenAll
	GenUnknown
	GenTagged
	GenTaggedNM
	GenCarefulCase
)

// ReadGeneration reads `^lexform$` units and steps the engine over each
// code, flushing the emitted surface at `$`. Each code is matched with its
// exact case and the surface is written as the dictionary spells it: no
// case recovery is applied.
func (d *Driver) ReadGeneration(r io.Reader, w io.Writer, mode GenFormat) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if d.Opts.NullFlush {
		return d.runSegmented(raw, w, func(b []byte, w io.Writer) error { return d.generationSegment(b, w, mode) })
	}
	return d.generationSegment(raw, w, mode)
}

func (d *Driver) generationSegment(raw []byte, w io.Writer, mode GenFormat) error {
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		switch it.Kind {
		case ItemLUStart:
			if err := d.generateOne(buf, w, mode); err != nil {
				return err
			}
		case ItemBlank:
			io.WriteString(w, it.Text)
		case ItemRune:
			io.WriteString(w, string(it.Rune))
		}
	}
	return nil
}

func (d *Driver) generateOne(buf *inputBuffer, w io.Writer, mode GenFormat) error {
	lexform, _ := readLexform(buf)
	if lexform == "" {
		return nil
	}
	if lexform[0] == '*' || lexform[0] == '@' {
		return d.writeGenFailure(w, lexform, mode)
	}

	d.State.Init(d.Root)
	codes, err := d.codesFor(lexform)
	if err != nil {
		return d.writeGenFailure(w, lexform, mode)
	}
	for _, c := range codes {
		if stepErr := d.State.StepCareful(rune(c), rune(c)); stepErr != nil {
			break
		}
	}
	if d.State.Size() == 0 || !d.State.IsFinal(d.Finals.All) {
		return d.writeGenFailure(w, lexform, mode)
	}
	out := d.State.FilterFinals(d.Finals.All, d.EscapeAt, false, 1, 1, false, false)
	io.WriteString(w, out)
	return nil
}

func (d *Driver) writeGenFailure(w io.Writer, lexform string, mode GenFormat) error {
	switch mode {
	case GenClean:
		// nothing emitted
	case GenAll, GenTagged, GenTaggedNM:
		fmt.Fprintf(w, "#%s", lexform)
	case GenUnknown:
		fmt.Fprintf(w, "@%s", lexform)
	default:
		fmt.Fprintf(w, "#%s", lexform)
	}
	return nil
}

// readLexform consumes items up to the matching ItemLUEnd, returning the
// raw lexform text (tags rendered as `<tag>`, literal runes verbatim).
func readLexform(buf *inputBuffer) (string, bool) {
	var b strings.Builder
	for {
		it, ok := buf.next()
		if !ok {
			return b.String(), false
		}
		if it.Kind == ItemLUEnd {
			return b.String(), true
		}
		switch it.Kind {
		case ItemRune:
			b.WriteRune(it.Rune)
		case ItemTag:
			b.WriteString(it.Text)
		}
	}
}

// codesFor maps a lexform's textual spelling to engine symbol codes,
// reading `<tag>` runs as single negative codes via the driver's alphabet.
func (d *Driver) codesFor(lexform string) ([]symbol.Code, error) {
	var out []symbol.Code
	runes := []rune(lexform)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '<' {
			j := i
			for j < len(runes) && runes[j] != '>' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("stream: unterminated tag in lexform %q", lexform)
			}
			name := string(runes[i : j+1])
			code, ok := d.Alph.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("stream: unknown tag %q", name)
			}
			out = append(out, code)
			i = j
			continue
		}
		out = append(out, symbol.Code(runes[i]))
	}
	return out, nil
}

// ReadTransliteration applies the transducer character-by-character with
// no `^...$` delimiting, committing on any punctuation/space boundary.
func (d *Driver) ReadTransliteration(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)
	var surface []rune
	d.State.Init(d.Root)

	flush := func() error {
		if len(surface) == 0 {
			return nil
		}
		if d.State.IsFinal(d.Finals.All) {
			out := d.State.FilterFinals(d.Finals.All, d.EscapeAt, false, 1, 1, false, false)
			io.WriteString(w, out)
		} else {
			io.WriteString(w, string(surface))
		}
		surface = nil
		d.State.Init(d.Root)
		return nil
	}

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		r, isRune := itemRune(it)
		if !isRune {
			if err := flush(); err != nil {
				return err
			}
			if it.Kind == ItemBlank {
				io.WriteString(w, it.Text)
			}
			continue
		}
		if !d.isAlphabetic(r) {
			if err := flush(); err != nil {
				return err
			}
			io.WriteString(w, string(r))
			continue
		}
		if err := d.State.StepCase(r, d.Opts.CaseSensitive); err != nil || d.State.Size() == 0 {
			if err := flush(); err != nil {
				return err
			}
			d.State.Init(d.Root)
			_ = d.State.StepCase(r, d.Opts.CaseSensitive)
		}
		surface = append(surface, r)
	}
	return flush()
}

// ReadBilingual reads full `^analysis$` units, looks each up in the
// (already-loaded) bilingual transducer, and emits the translation with
// asterisk/at-sign pass-through conventions for untranslated input.
func (d *Driver) ReadBilingual(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		switch it.Kind {
		case ItemLUStart:
			lexform, _ := readLexform(buf)
			if strings.HasPrefix(lexform, "*") {
				fmt.Fprintf(w, "^%s$", lexform)
				continue
			}
			d.State.Init(d.Root)
			codes, err := d.codesFor(lexform)
			var out string
			consumed := 0
			if err == nil {
				ok := true
				for _, c := range codes {
					if stepErr := d.State.Step(c); stepErr != nil || d.State.Size() == 0 {
						ok = false
						break
					}
					consumed++
				}
				if ok && d.State.IsFinal(d.Finals.All) {
					out = d.State.FilterFinals(d.Finals.All, d.EscapeAt, false, 1, 1, false, false)
				}
			}
			switch {
			case out != "":
				fmt.Fprintf(w, "^%s/%s$", lexform, out)
			case d.Opts.StrictCompat && len(codes)-consumed > 3:
				// original_source/lttoolbox/fst_processor.cc's biltransfull:
				// `if (start_point < (end_point - 3)) return "^$"` -- once the
				// unconsumed remainder grows past a few symbols, the original
				// discards whatever partial match it had instead of falling
				// back to the untranslated form.
				io.WriteString(w, "^$")
			default:
				fmt.Fprintf(w, "^%s/@%s$", lexform, lexform)
			}
		case ItemBlank:
			io.WriteString(w, it.Text)
		case ItemRune:
			io.WriteString(w, string(it.Rune))
		}
	}
	return nil
}
