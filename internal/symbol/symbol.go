// Package symbol implements the Alphabet: the bidirectional mapping between
// multi-character tag symbols (<n>, <sg>, ...) and negative integer codes,
// and the dense upper/lower pair encoding used for transducer arc labels.
package symbol

import (
	"fmt"

	"github.com/derekparker/trie"
)

// Code is a symbol code. Non-negative values are Unicode code points (0 is
// epsilon); negative values index the multi-character symbol table.
type Code int32

// Epsilon is the universal empty-transition symbol.
const Epsilon Code = 0

// String renders c for debugging: "ε", "<tag:N>", or the character itself.
func (c Code) String() string {
	if c == Epsilon {
		return "ε"
	}
	if c < 0 {
		return fmt.Sprintf("<tag:%d>", -c)
	}
	return string(rune(c))
}

// EdgeTag encodes an ordered pair <upper, lower> of symbol Codes as a single
// dense identifier, assigned in registration order.
type EdgeTag int32

type pair struct {
	upper, lower Code
}

// Alphabet owns the multichar-symbol table and the edge-tag pair table.
// Construct one with New; the zero value has nil tables.
type Alphabet struct {
	symbols    []string // index i -> spelling, code is -(i+1)
	symbolTrie *trie.Trie
	codeByName map[string]Code

	pairs      []pair
	tagByPair  map[pair]EdgeTag
	blankedOut map[Code]bool // symbols elided from getSymbol output
}

// New returns an empty, ready-to-use Alphabet.
func New() *Alphabet {
	return &Alphabet{
		symbolTrie: trie.New(),
		codeByName: make(map[string]Code),
		tagByPair:  make(map[pair]EdgeTag),
		blankedOut: make(map[Code]bool),
	}
}

// Include registers a multi-character symbol (its bracketed spelling, e.g.
// "<n>") if not already present, and returns its code. Idempotent.
func (a *Alphabet) Include(name string) Code {
	if c, ok := a.codeByName[name]; ok {
		return c
	}
	a.symbols = append(a.symbols, name)
	code := Code(-len(a.symbols))
	a.codeByName[name] = code
	a.symbolTrie.Add(name, code)
	return code
}

// Lookup returns the code for a previously-included symbol name.
func (a *Alphabet) Lookup(name string) (Code, bool) {
	c, ok := a.codeByName[name]
	return c, ok
}

// SymbolName returns the bracketed spelling for a negative (multi-char) code.
func (a *Alphabet) SymbolName(c Code) (string, bool) {
	if c >= 0 {
		return "", false
	}
	idx := int(-c) - 1
	if idx < 0 || idx >= len(a.symbols) {
		return "", false
	}
	return a.symbols[idx], true
}

// SymbolsWithPrefix lists multichar symbol names sharing a prefix, using the
// trie for sublinear lookup (used by diagnostics, e.g. "symbols starting <v").
func (a *Alphabet) SymbolsWithPrefix(prefix string) []string {
	keys := a.symbolTrie.PrefixSearch(prefix)
	return keys
}

// Pair returns the dense edge tag for the ordered pair (upper, lower),
// registering a new one if needed. Total and cached.
func (a *Alphabet) Pair(upper, lower Code) EdgeTag {
	key := pair{upper, lower}
	if t, ok := a.tagByPair[key]; ok {
		return t
	}
	a.pairs = append(a.pairs, key)
	t := EdgeTag(len(a.pairs) - 1)
	a.tagByPair[key] = t
	return t
}

// Decode recovers the (upper, lower) pair for an edge tag.
func (a *Alphabet) Decode(t EdgeTag) (upper, lower Code, ok bool) {
	if int(t) < 0 || int(t) >= len(a.pairs) {
		return 0, 0, false
	}
	p := a.pairs[t]
	return p.upper, p.lower, true
}

// IsTag reports whether a code denotes a multi-character symbol.
func IsTag(c Code) bool { return c < 0 }

// SetBlanked marks a symbol to be elided (emit nothing) from GetSymbol output,
// the case-aware override used when rendering control tags invisibly.
func (a *Alphabet) SetBlanked(c Code, blanked bool) {
	if blanked {
		a.blankedOut[c] = true
	} else {
		delete(a.blankedOut, c)
	}
}

// GetSymbol appends the textual rendering of code to buf: the literal
// character if code >= 0x20, the bracketed tag form if code is negative,
// nothing if code is epsilon or blanked out.
func (a *Alphabet) GetSymbol(buf *[]rune, c Code) {
	if c == Epsilon {
		return
	}
	if a.blankedOut[c] {
		return
	}
	if c >= 0x20 {
		*buf = append(*buf, rune(c))
		return
	}
	if IsTag(c) {
		name, ok := a.SymbolName(c)
		if !ok {
			return
		}
		*buf = append(*buf, []rune(name)...)
	}
}

// CreateLoopbackSymbols fills `out` with edge tags x:x for every symbol
// present on `side` (UpperSide or LowerSide) of `other`'s pair table that
// also exists (under the same spelling) in this alphabet. Used by the
// trimmer to build the .* self-loop that prefix-closes the bilingual FST.
type Side int

const (
	UpperSide Side = iota
	LowerSide
)

func (a *Alphabet) CreateLoopbackSymbols(out map[EdgeTag]bool, other *Alphabet, side Side) {
	seen := make(map[Code]bool)
	for _, p := range other.pairs {
		var c Code
		if side == UpperSide {
			c = p.upper
		} else {
			c = p.lower
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		var mine Code
		if c >= 0 {
			mine = c
		} else {
			name, ok := other.SymbolName(c)
			if !ok {
				continue
			}
			m, ok := a.Lookup(name)
			if !ok {
				continue
			}
			mine = m
		}
		out[a.Pair(mine, mine)] = true
	}
}

// NumSymbols returns the count of registered multi-character symbols.
func (a *Alphabet) NumSymbols() int { return len(a.symbols) }

// NumPairs returns the count of registered edge tags.
func (a *Alphabet) NumPairs() int { return len(a.pairs) }
