// Package engine implements the weighted, non-deterministic FST runtime:
// the frontier of live paths, the step family, final-state filtering, and
// the compound-splitting extensions.
//
// Grounded on LAB_2/regexlib/dfa.go's epsilonClosure/moveNFA set-of-states
// traversal and LAB_2/regexlib/regexp.go's matchWithGroups per-position
// frontier update, generalized from "set of NFA states" to "set of weighted
// emission paths" because an FST accumulates output and weight, not just
// acceptance.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// MaxCombinations bounds the frontier size; exceeding it aborts the current
// token (spec.md §4.3, §5).
const MaxCombinations = 32767

// ErrFrontierExploded is returned by Step* when the frontier would exceed
// MaxCombinations. The frontier is reset to empty; the caller should treat
// the current token as unmatched and continue processing the stream.
var ErrFrontierExploded = errors.New("engine: frontier exceeded MAX_COMBINATIONS")

// Path is one live entry in the frontier: a state reached after consuming
// some prefix of the input, the accumulated weight, and the lower-side
// symbols emitted along the way.
type Path struct {
	Node   int32
	Weight float64
	Emit   []symbol.Code
}

func (p Path) clone() Path {
	emit := make([]symbol.Code, len(p.Emit))
	copy(emit, p.Emit)
	return Path{Node: p.Node, Weight: p.Weight, Emit: emit}
}

// State is the frontier: an ordered sequence of live paths through the
// loaded TransExe. One State is reused across tokens via Init.
type State struct {
	alph      *symbol.Alphabet
	exe       *transexe.TransExe
	epsilon   symbol.EdgeTag
	frontier  []Path
	hasEpsTag bool
}

// New creates an engine bound to a loaded dictionary section. The alphabet
// must be the same one used to compile/load exe.
func New(alph *symbol.Alphabet, exe *transexe.TransExe) *State {
	// Pair is total/idempotent; epsilon:epsilon always resolves to the same
	// tag whether or not any arc actually used it.
	return &State{alph: alph, exe: exe, epsilon: alph.Pair(symbol.Epsilon, symbol.Epsilon), hasEpsTag: true}
}

// Init resets the frontier to the single entry (node, 0.0, "") and
// immediately closes over epsilon:* arcs. Without this, a Root that is
// itself a synthetic union node (transducer.UnionWith's new initial state,
// linked to the real start states only by epsilon:epsilon arcs) would never
// match anything: consume only follows arcs whose upper side equals the
// input code, so the first real character could never fire from a bare,
// unclosed root.
func (s *State) Init(node int32) {
	s.frontier = []Path{{Node: node, Weight: 0, Emit: nil}}
	if closed, err := s.epsilonClosure(s.frontier); err == nil {
		s.frontier = dedup(closed)
	}
}

// Size returns the number of live frontier entries (0 means "stuck").
func (s *State) Size() int { return len(s.frontier) }

// Frontier exposes a read-only view of the live paths.
func (s *State) Frontier() []Path { return s.frontier }

func emitKey(node int32, emit []symbol.Code) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", node)
	for _, c := range emit {
		fmt.Fprintf(&b, "%d,", c)
	}
	return b.String()
}

// epsilonClosure expands `in` through epsilon:* arcs (upper side epsilon)
// until fixpoint, deduplicating by (node, emission) and keeping the minimum
// weight. Bounded by MaxCombinations to guard against epsilon cycles.
func (s *State) epsilonClosure(in []Path) ([]Path, error) {
	best := make(map[string]Path, len(in))
	queue := make([]Path, len(in))
	copy(queue, in)
	for _, p := range in {
		best[emitKey(p.Node, p.Emit)] = p
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, tag := range s.exe.AllTags(cur.Node) {
			upper, lower, ok := s.alph.Decode(tag)
			if !ok || upper != symbol.Epsilon {
				continue
			}
			for _, tgt := range s.exe.Targets(cur.Node, tag) {
				next := cur.clone()
				next.Node = tgt.Dest
				next.Weight = cur.Weight + tgt.Weight
				if lower != symbol.Epsilon {
					next.Emit = append(next.Emit, lower)
				}
				key := emitKey(next.Node, next.Emit)
				if existing, ok := best[key]; ok && existing.Weight <= next.Weight {
					continue
				}
				best[key] = next
				queue = append(queue, next)
				if len(best) > MaxCombinations {
					return nil, ErrFrontierExploded
				}
			}
		}
	}

	out := make([]Path, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	return out, nil
}

func dedup(paths []Path) []Path {
	best := make(map[string]Path, len(paths))
	for _, p := range paths {
		key := emitKey(p.Node, p.Emit)
		if existing, ok := best[key]; !ok || p.Weight < existing.Weight {
			best[key] = p
		}
	}
	out := make([]Path, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	return out
}

// consume follows every arc out of each frontier entry whose upper side
// matches any code in `accept` (an input code plus optional fallbacks),
// returning the symbol-consumed (pre-epsilon-closure) set.
func (s *State) consume(accept func(symbol.Code) bool) []Path {
	var out []Path
	for _, p := range s.frontier {
		for _, tag := range s.exe.AllTags(p.Node) {
			upper, lower, ok := s.alph.Decode(tag)
			if !ok || !accept(upper) {
				continue
			}
			for _, tgt := range s.exe.Targets(p.Node, tag) {
				next := p.clone()
				next.Node = tgt.Dest
				next.Weight = p.Weight + tgt.Weight
				if lower != symbol.Epsilon {
					next.Emit = append(next.Emit, lower)
				}
				out = append(out, next)
			}
		}
	}
	return out
}

func (s *State) advance(accept func(symbol.Code) bool) error {
	consumed := s.consume(accept)
	if len(consumed) > MaxCombinations {
		s.frontier = nil
		return ErrFrontierExploded
	}
	closed, err := s.epsilonClosure(consumed)
	if err != nil {
		s.frontier = nil
		return err
	}
	closed = dedup(closed)
	if len(closed) > MaxCombinations {
		s.frontier = nil
		return ErrFrontierExploded
	}
	s.frontier = closed
	return nil
}

// Step consumes input exactly (no case folding).
func (s *State) Step(input symbol.Code) error {
	return s.advance(func(u symbol.Code) bool { return u == input })
}

// StepFold consumes input and fallback together: arcs matching either code
// fire in the same step. Used for iswupper(c) with fallback = towlower(c)
// when caseSensitive == false.
func (s *State) StepFold(input, fallback symbol.Code) error {
	// No preference for the exact match: whether or not any arc matches input
	// directly, arcs matching fallback are *also* allowed in the same step
	// (spec.md: "any arc that would fire is preferred, otherwise arcs
	// matching fallback are also allowed" -- read as "both are tried
	// together", matching original_source's current_state.step(val,
	// towlower(val)) which passes both codes down in one call).
	return s.advance(func(u symbol.Code) bool { return u == input || u == fallback })
}

// StepCase is a convenience wrapper combining case-folding with the
// caseSensitive flag: when caseSensitive is true, only the exact code is
// tried; otherwise an uppercase c is also matched by arcs for its lowercase
// form (a lowercase c matches only itself).
func (s *State) StepCase(c rune, caseSensitive bool) error {
	if caseSensitive || !unicode.IsUpper(c) {
		return s.Step(symbol.Code(c))
	}
	return s.StepFold(symbol.Code(c), symbol.Code(unicode.ToLower(c)))
}

// StepCareful gives "prefer-exact-case" semantics for the carefulcase
// generation mode: arcs matching the original uppercase c are only taken if
// no arcs match the lowered form.
func (s *State) StepCareful(c rune, lowered rune) error {
	loweredHasArc := false
	for _, p := range s.frontier {
		for _, tag := range s.exe.AllTags(p.Node) {
			upper, _, ok := s.alph.Decode(tag)
			if ok && upper == symbol.Code(lowered) {
				loweredHasArc = true
				break
			}
		}
		if loweredHasArc {
			break
		}
	}
	if loweredHasArc {
		return s.Step(symbol.Code(lowered))
	}
	return s.Step(symbol.Code(c))
}

// StepAlternates accepts any code in alternates as equivalent to c; used
// with diacritic-restoration maps.
func (s *State) StepAlternates(c symbol.Code, alternates map[symbol.Code]bool) error {
	return s.advance(func(u symbol.Code) bool { return u == c || alternates[u] })
}

// IsFinal reports whether some frontier entry's node is in finalSet.
func (s *State) IsFinal(finalSet map[int32]float64) bool {
	for _, p := range s.frontier {
		if _, ok := finalSet[p.Node]; ok {
			return true
		}
	}
	return false
}

// finalEntry is one frontier path whose node is in the final set, with its
// total weight: the path's accumulated weight plus the node's final weight.
type finalEntry struct {
	path  Path
	total float64
}

func (s *State) collectFinals(finalSet map[int32]float64) []finalEntry {
	var out []finalEntry
	for _, p := range s.frontier {
		if fw, ok := finalSet[p.Node]; ok {
			out = append(out, finalEntry{path: p, total: p.Weight + fw})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].total < out[j].total })
	return out
}
