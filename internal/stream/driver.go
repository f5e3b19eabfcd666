// Package stream implements the Apertium stream driver: the read* family
// that tokenizes `^lexical-unit$`, blanks, wordbound blanks, tags, and
// escapes from a text stream and drives an engine.State through a
// longest-match commit loop.
//
// Grounded on original_source/lttoolbox/fst_processor.cc's functions of the
// same name for exact escaping/blank/tag semantics, restructured into the
// single-loop-with-small-state-word idiom LAB_3_Drone/evaluator/eval.go's
// Exec/Eval dispatch already uses for its own driver loop.
package stream

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/options"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// Driver wires a loaded engine section to one mode-specific read/write
// loop. A Driver instance is reused across calls; State is reset (Init) at
// the start of every lexical unit.
type Driver struct {
	Alph     *symbol.Alphabet
	Exe      *transexe.TransExe
	State    *engine.State
	Finals   *engine.FinalitySets
	Root     int32
	Opts     options.Options
	Classes  engine.CharClasses
	EscapeAt map[rune]bool // escape set for render (defaults to {'\\', '/', '<', '$', '[', ']', '^', '@'})
}

// NewDriver builds a Driver around a loaded section, defaulting the escape
// set to the Apertium stream metacharacters. Unless opts.ShowControlSymbols
// is set, every registered control-tag symbol (the postblank/preblank/
// inconditional finality markers and the "<@...>" lemq tags MoveLemqsLast
// recognizes) is blanked from rendered output via symbol.Alphabet.SetBlanked,
// mirroring original_source/lttoolbox/fst_processor.cc's
// `if (!showControlSymbols) alphabet.setSymbol(sym, "")` guard.
func NewDriver(alph *symbol.Alphabet, exe *transexe.TransExe, finals *engine.FinalitySets, root int32, opts options.Options) *Driver {
	if !opts.ShowControlSymbols {
		blankControlSymbols(alph)
	}
	return &Driver{
		Alph:   alph,
		Exe:    exe,
		State:  engine.New(alph, exe),
		Finals: finals,
		Root:   root,
		Opts:   opts,
		EscapeAt: map[rune]bool{
			'\\': true, '/': true, '<': true, '$': true, '[': true, ']': true, '^': true, '@': true,
		},
	}
}

// blankControlSymbols elides control-tag symbols from GetSymbol's rendered
// output: the "<:...>" finality markers (postblank/preblank/inconditional)
// and the "<@...>" lemq/control tags MoveLemqsLast classifies as control
// tags.
func blankControlSymbols(alph *symbol.Alphabet) {
	for _, prefix := range []string{"<:", "<@"} {
		for _, name := range alph.SymbolsWithPrefix(prefix) {
			if c, ok := alph.Lookup(name); ok {
				alph.SetBlanked(c, true)
			}
		}
	}
}

// commitState is the small state word spec.md §9 recommends the tokenizer
// keep instead of inheritance-based mode classes.
type commitState struct {
	pos            int
	haveMatch      bool
	finalSet       map[int32]float64
	postblankAfter bool
	preblankBefore bool
	inconditional  bool
}

func (d *Driver) finalityOf(s *engine.State, p int) (commitState, bool) {
	switch {
	case s.IsFinal(d.Finals.Inconditional):
		return commitState{pos: p, haveMatch: true, finalSet: d.Finals.Inconditional, inconditional: true}, true
	case s.IsFinal(d.Finals.Postblank):
		return commitState{pos: p, haveMatch: true, finalSet: d.Finals.Postblank, postblankAfter: true}, true
	case s.IsFinal(d.Finals.Preblank):
		return commitState{pos: p, haveMatch: true, finalSet: d.Finals.Preblank, preblankBefore: true}, true
	case s.IsFinal(d.Finals.Standard):
		return commitState{pos: p, haveMatch: true, finalSet: d.Finals.Standard}, true
	default:
		return commitState{}, false
	}
}

// ReadAnalysis is the flagship longest-match loop (spec.md §4.4 steps 1-6):
// surface text in, `^surface/analysis$` units out, blanks and wordbound
// blanks preserved in order.
func (d *Driver) ReadAnalysis(r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if d.Opts.NullFlush {
		return d.runSegmented(raw, w, d.analysisSegment)
	}
	return d.analysisSegment(raw, w)
}

func (d *Driver) runSegmented(raw []byte, w io.Writer, seg func([]byte, io.Writer) error) error {
	segs := strings.Split(string(raw), "\x00")
	for i, s := range segs {
		if i == len(segs)-1 && s == "" {
			break
		}
		if err := seg([]byte(s), w); err != nil {
			return err
		}
		if i != len(segs)-1 {
			if _, err := w.Write([]byte{0}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) analysisSegment(raw []byte, w io.Writer) error {
	items, err := Tokenize(raw)
	if err != nil {
		return err
	}
	buf := newInputBuffer(items)
	blanks := newBlankQueue()

	flushBlanks := func() error {
		if !blanks.empty() {
			if _, err := io.WriteString(w, blanks.flush()); err != nil {
				return err
			}
		}
		return nil
	}

	emitKnown := func(surf []rune, cs commitState, lf string) error {
		if cs.preblankBefore {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "^%s/%s$", string(surf), lf)
		if cs.postblankAfter {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		return flushBlanks()
	}

	emitUnknown := func(surf []rune) error {
		if d.Opts.Decompose {
			if lf := d.compoundAnalysis(surf); lf != "" {
				fmt.Fprintf(w, "^%s/%s$", string(surf), lf)
				return flushBlanks()
			}
		}
		esc := escapeRunesFor(string(surf), d.EscapeAt)
		fmt.Fprintf(w, "^%s/*%s$", esc, esc)
		return flushBlanks()
	}

	// resetToken clears per-token state and primes the engine at Root,
	// ready to consume from buf's current position.
	var surface []rune
	var best commitState
	var bestLF string
	tokenStart := 0
	resetToken := func() {
		surface = nil
		best = commitState{}
		bestLF = ""
		tokenStart = buf.getPos()
		d.State.Init(d.Root)
	}
	resetToken()

	for {
		it, ok := buf.peek()
		if !ok {
			break
		}

		if it.Kind == ItemBlank {
			if len(surface) == 0 {
				if _, err := io.WriteString(w, it.Text); err != nil {
					return err
				}
				buf.next()
				continue
			}
			blanks.push(it.Text)
			buf.next()
			continue
		}

		r, isRune := itemRune(it)
		if !isRune {
			buf.next()
			continue
		}

		if len(surface) == 0 && !d.isAlphabetic(r) {
			if _, err := io.WriteString(w, string(r)); err != nil {
				return err
			}
			buf.next()
			resetToken()
			continue
		}

		_ = d.State.StepCase(r, d.Opts.CaseSensitive)
		buf.next()
		surface = append(surface, r)

		if d.State.Size() > 0 {
			if cs, ok := d.finalityOf(d.State, buf.getPos()); ok {
				best = cs
				// Render now: by the time the step that ends the match has
				// emptied the frontier, these final paths are gone.
				firstUpper := unicode.IsUpper(surface[0])
				allUpper := firstUpper && len(surface) > 1 && unicode.IsUpper(surface[1])
				bestLF = d.State.FilterFinals(cs.finalSet, d.EscapeAt, d.Opts.ShowWeights, d.Opts.MaxAnalyses, d.Opts.MaxWeightClasses, allUpper, firstUpper)
			}
		}

		if d.State.Size() == 0 {
			if best.haveMatch {
				consumed := best.pos - tokenStart
				if consumed < 0 {
					consumed = 0
				}
				if consumed > len(surface) {
					consumed = len(surface)
				}
				if err := emitKnown(surface[:consumed], best, bestLF); err != nil {
					return err
				}
				buf.setPos(best.pos)
			} else if d.allAlphabetic(surface) {
				// No viable match but the prefix is alphabetic: greedily
				// consume the rest of the alphabetic run (no further engine
				// stepping needed, the frontier is already empty) before
				// emitting the whole run as unknown (spec.md §4.4 step 6).
				for {
					nit, ok := buf.peek()
					if !ok {
						break
					}
					nr, isRune := itemRune(nit)
					if !isRune || !d.isAlphabetic(nr) {
						break
					}
					surface = append(surface, nr)
					buf.next()
				}
				if err := emitUnknown(surface); err != nil {
					return err
				}
			} else {
				// No match and not a clean alphabetic run: rewind to just
				// past the token start and pass the single rune through
				// literally, matching the original's conservative fallback.
				buf.setPos(tokenStart + 1)
				if _, err := io.WriteString(w, string(items[tokenStart].Rune)); err != nil {
					return err
				}
			}
			resetToken()
			continue
		}
	}

	if len(surface) > 0 {
		if best.haveMatch {
			consumed := best.pos - tokenStart
			if consumed < 0 {
				consumed = 0
			}
			if consumed > len(surface) {
				consumed = len(surface)
			}
			if err := emitKnown(surface[:consumed], best, bestLF); err != nil {
				return err
			}
		} else if d.allAlphabetic(surface) {
			if err := emitUnknown(surface); err != nil {
				return err
			}
		}
	}
	return flushBlanks()
}

func itemRune(it Item) (rune, bool) {
	switch it.Kind {
	case ItemRune:
		return it.Rune, true
	default:
		return 0, false
	}
}

func (d *Driver) isAlphabetic(r rune) bool {
	if d.Classes.Alphabetic != nil {
		return d.Classes.Alphabetic[r]
	}
	return unicode.IsLetter(r)
}

func (d *Driver) allAlphabetic(rs []rune) bool {
	for _, r := range rs {
		if !d.isAlphabetic(r) {
			return false
		}
	}
	return len(rs) > 0
}

func escapeRunesFor(s string, escapeSet map[rune]bool) string {
	var b strings.Builder
	for _, r := range s {
		if escapeSet[r] {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
