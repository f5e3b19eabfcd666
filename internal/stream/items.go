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

// ItemKind classifies one tokenized unit of the input stream.
type ItemKind int

const (
	ItemRune ItemKind = iota
	ItemTag
	ItemBlank
	ItemWordboundOpen
	ItemWordboundClose
	ItemLUStart
	ItemLUEnd
	ItemSlash
	ItemNul
	ItemCDATA
)

// Item is one lexed unit: either a literal/escaped rune to feed the engine,
// a `<tag>` spelling, or stream-structure punctuation (blanks, lexical-unit
// delimiters, null-flush marker).
type Item struct {
	Kind ItemKind
	Rune rune
	Text string // tag spelling (brackets kept), CDATA body (no wrapper), blank text (brackets kept verbatim)
}
