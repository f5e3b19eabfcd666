// Package trim implements the dictionary trimmer: it prunes a monolingual
// analyser so every surviving entry has at least one translation in a
// bilingual dictionary, by intersecting each monodix section with the
// prefix closure of the unioned bidix.
//
// Grounded on LAB_2/regexlib/setops.go's Product/IntersectDFA/UnionDFA for
// the intersection/union machinery and LAB_2/regexlib/minimize.go for the
// post-intersection minimize step, composed over transducer.Transducer
// instead of setops.go's plain rune-alphabet DFA.
package trim

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

// ErrEmptyTrim reports spec.md §4.6 step 5's abort condition: every monodix
// section emptied out of the intersection, a near-certain sign the two
// dictionaries don't describe the same word list.
var ErrEmptyTrim = errors.New("trim: result is empty, probable dictionary mismatch")

// Trim implements spec.md §4.6 steps 1-5 over already-loaded dictionaries,
// returning the surviving, minimized monodix sections (still expressed over
// mono's alphabet). Section fan-out (step 5) runs concurrently via
// errgroup.Group: each section's intersect+minimize is independent,
// read-only work over already-built transducer.Transducer values, so it
// cannot race -- the trimmer is the one batch, compiler-adjacent tool in
// this module allowed to use goroutines (the engine and stream driver stay
// strictly single-threaded, spec.md §5).
func Trim(ctx context.Context, mono, bi *codec.Dictionary) ([]codec.Section, error) {
	prefix := unionSections(bi.Alphabet, bi.Sections)

	loopback := make(map[symbol.EdgeTag]bool)
	bi.Alphabet.CreateLoopbackSymbols(loopback, bi.Alphabet, symbol.LowerSide)
	prefix.AppendDotStar(loopback)
	prefix.MoveLemqsLast(bi.Alphabet)

	// Register the epsilon pair Intersect looks up in mono's alphabet now,
	// so the concurrent sections below only read it.
	mono.Alphabet.Pair(symbol.Epsilon, symbol.Epsilon)

	results := make([]*transducer.Transducer, len(mono.Sections))
	g, _ := errgroup.WithContext(ctx)
	for i, sec := range mono.Sections {
		i, sec := i, sec
		g.Go(func() error {
			trimmed := sec.Trie.Intersect(prefix, mono.Alphabet, bi.Alphabet)
			results[i] = trimmed.Minimize()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []codec.Section
	for i, sec := range mono.Sections {
		r := results[i]
		if r.Size() == 0 || len(r.Finals) == 0 {
			continue
		}
		out = append(out, codec.Section{Name: sec.Name, Trie: r})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w (mono sections: %d)", ErrEmptyTrim, len(mono.Sections))
	}
	return out, nil
}

// unionSections disjoint-unions every bidix section into a single
// Transducer, the FST step 1 asks for before the loopback/dot-star/
// move-lemqs-last passes.
func unionSections(alph *symbol.Alphabet, sections []codec.Section) *transducer.Transducer {
	if len(sections) == 0 {
		return transducer.New()
	}
	out := sections[0].Trie.Clone()
	for _, sec := range sections[1:] {
		out.UnionWith(alph, sec.Trie)
	}
	return out
}
