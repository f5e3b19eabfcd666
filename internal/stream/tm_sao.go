package stream

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// numberPlaceholderTag is the tag spelling a digit run is coalesced into
// during TM analysis; the literal digits are recorded in a side buffer and
// spliced back into the rendered analysis by engine.State.FilterFinalsTM.
const numberPlaceholderTag = "<n>"

// ReadTMAnalysis is the translation-memory analysis variant: punctuation
// commits the latest match, digit runs coalesce into a single <n>
// placeholder whose literal text is reinjected in the output. Blanks are
// not deferred: a blank commits the pending match and is written at once.
func (d *Driver) ReadTMAnalysis(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}

	nTag, hasN := d.Alph.Lookup(numberPlaceholderTag)
	buf := newInputBuffer(items)
	var surface []rune
	var placeholders []string
	var numRun []rune
	d.State.Init(d.Root)

	flushNumRun := func() {
		if len(numRun) == 0 {
			return
		}
		if hasN {
			_ = d.State.Step(nTag)
			placeholders = append(placeholders, string(numRun))
		} else {
			for _, r := range numRun {
				_ = d.State.Step(symbol.Code(r))
			}
		}
		surface = append(surface, numRun...)
		numRun = nil
	}

	commit := func() error {
		flushNumRun()
		if len(surface) == 0 {
			return nil
		}
		if d.State.IsFinal(d.Finals.All) {
			lf := d.State.FilterFinalsTM(d.Finals.All, d.EscapeAt, placeholders)
			fmt.Fprintf(w, "^%s/%s$", string(surface), lf)
		} else {
			esc := escapeRunesFor(string(surface), d.EscapeAt)
			fmt.Fprintf(w, "^%s/*%s$", esc, esc)
		}
		surface = nil
		placeholders = nil
		d.State.Init(d.Root)
		return nil
	}

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		switch it.Kind {
		case ItemBlank:
			if err := commit(); err != nil {
				return err
			}
			io.WriteString(w, it.Text)
		case ItemRune:
			if unicode.IsDigit(it.Rune) {
				numRun = append(numRun, it.Rune)
				continue
			}
			flushNumRun()
			if unicode.IsPunct(it.Rune) || unicode.IsSpace(it.Rune) {
				if err := commit(); err != nil {
					return err
				}
				io.WriteString(w, string(it.Rune))
				continue
			}
			_ = d.State.StepCase(it.Rune, d.Opts.CaseSensitive)
			surface = append(surface, it.Rune)
		}
	}
	return commit()
}

// ReadSAO reads `<![CDATA[...]]>` blocks as blanks and emits `<d>...</d>`
// for surface runs with no analysis.
func (d *Driver) ReadSAO(r io.Reader, w io.Writer) error {
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

	commit := func() error {
		if len(surface) == 0 {
			return nil
		}
		if d.State.IsFinal(d.Finals.All) {
			out := d.State.FilterFinalsSAO(d.Finals.All)
			io.WriteString(w, out)
		} else {
			fmt.Fprintf(w, "<d>%s</d>", string(surface))
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
		switch it.Kind {
		case ItemCDATA:
			if err := commit(); err != nil {
				return err
			}
			fmt.Fprintf(w, "<![CDATA[%s]]>", it.Text)
		case ItemRune:
			if !d.isAlphabetic(it.Rune) {
				if err := commit(); err != nil {
					return err
				}
				io.WriteString(w, string(it.Rune))
				continue
			}
			_ = d.State.StepCase(it.Rune, d.Opts.CaseSensitive)
			surface = append(surface, it.Rune)
		}
	}
	return commit()
}

// combineWblanks concatenates interior wordbound-blank contents with "; "
// and wraps the result in the original opening bracket plus a single
// closing `[[/]]`, per spec.md §4.4's postgeneration description.
func combineWblanks(ws []wblank) string {
	if len(ws) == 0 {
		return ""
	}
	var parts []string
	for _, w := range ws {
		parts = append(parts, w.Content)
	}
	return "[[" + strings.Join(parts, "; ") + "]]" + ws[0].Body + "[[/]]"
}

// ReadPostgeneration rewrites `~`-triggered segments using the loaded
// postgen transducer, preserving and re-interleaving wordbound blanks.
func (d *Driver) ReadPostgeneration(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)
	var pendingWb []wblank

	flushWb := func() {
		if len(pendingWb) == 0 {
			return
		}
		io.WriteString(w, combineWblanks(pendingWb))
		pendingWb = nil
	}

	needsPostgen := false
	var segment []rune
	rewrite := func() {
		if len(segment) == 0 {
			return
		}
		d.State.Init(d.Root)
		ok := true
		for _, r := range segment {
			if err := d.State.Step(symbol.Code(r)); err != nil || d.State.Size() == 0 {
				ok = false
				break
			}
		}
		if ok && d.State.IsFinal(d.Finals.All) {
			io.WriteString(w, d.State.FilterFinals(d.Finals.All, d.EscapeAt, false, 1, 1, false, false))
		} else {
			io.WriteString(w, string(segment))
		}
		segment = nil
	}

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		switch it.Kind {
		case ItemWordboundOpen:
			content, _ := readWblankContent(buf)
			pendingWb = append(pendingWb, wblank{Content: content})
		case ItemWordboundClose:
			// closed implicitly by readWblankContent
		case ItemRune:
			if it.Rune == '~' {
				needsPostgen = true
				continue
			}
			if needsPostgen && !d.isAlphabetic(it.Rune) {
				rewrite()
				flushWb()
				needsPostgen = false
				io.WriteString(w, string(it.Rune))
				continue
			}
			if needsPostgen {
				segment = append(segment, it.Rune)
				continue
			}
			io.WriteString(w, string(it.Rune))
		case ItemBlank:
			io.WriteString(w, it.Text)
		}
	}
	rewrite()
	flushWb()
	return nil
}

func readWblankContent(buf *inputBuffer) (string, bool) {
	var b strings.Builder
	for {
		it, ok := buf.next()
		if !ok {
			return b.String(), false
		}
		if it.Kind == ItemWordboundClose {
			return b.String(), true
		}
		if it.Kind == ItemRune {
			b.WriteRune(it.Rune)
		}
	}
}

// ReadIntergeneration is ReadPostgeneration without wordbound-blank
// bookkeeping.
func (d *Driver) ReadIntergeneration(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)
	var segment []rune
	needsPostgen := false

	rewrite := func() {
		if len(segment) == 0 {
			return
		}
		d.State.Init(d.Root)
		ok := true
		for _, r := range segment {
			if err := d.State.Step(symbol.Code(r)); err != nil || d.State.Size() == 0 {
				ok = false
				break
			}
		}
		if ok && d.State.IsFinal(d.Finals.All) {
			io.WriteString(w, d.State.FilterFinals(d.Finals.All, d.EscapeAt, false, 1, 1, false, false))
		} else {
			io.WriteString(w, string(segment))
		}
		segment = nil
	}

	for {
		it, ok := buf.next()
		if !ok {
			break
		}
		switch it.Kind {
		case ItemRune:
			if it.Rune == '~' {
				needsPostgen = true
				continue
			}
			if needsPostgen && !d.isAlphabetic(it.Rune) {
				rewrite()
				needsPostgen = false
				io.WriteString(w, string(it.Rune))
				continue
			}
			if needsPostgen {
				segment = append(segment, it.Rune)
				continue
			}
			io.WriteString(w, string(it.Rune))
		case ItemBlank:
			io.WriteString(w, it.Text)
		}
	}
	rewrite()
	return nil
}
