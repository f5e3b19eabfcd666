// Package transexe implements TransExe, the read-optimized adjacency
// representation loaded from disk for runtime traversal. It is immutable
// after Load: the engine never mutates it.
//
// Grounded on LAB_2/regexlib/dfa.go's dfaState/DFA (a read-only,
// already-determinized transition table), generalized back to
// non-deterministic weighted targets because, unlike a compiled regex DFA,
// a loaded lttoolbox dictionary section is not determinized.
package transexe

import "github.com/lttoolbox-go/lttb/internal/symbol"

// Target is a (destination, weight) pair, mirroring transducer.Target so
// TransExe can be built directly from a transducer.Transducer without
// importing it (keeps the hot path free of the construction API).
type Target struct {
	Dest   int32
	Weight float64
}

// TransExe is the flat per-(node, edgeTag) adjacency array used at runtime.
type TransExe struct {
	arcs    []map[symbol.EdgeTag][]Target
	initial int32
	finals  map[int32]float64
}

// Load builds a TransExe directly from parallel slices (node count, arcs per
// node, finals, initial), the shape an AT&T-compiled or binary-decoded
// transducer already has in memory.
func Load(numStates int, initial int32, arcsPerNode []map[symbol.EdgeTag][]Target, finals map[int32]float64) *TransExe {
	arcs := make([]map[symbol.EdgeTag][]Target, numStates)
	for i := 0; i < numStates; i++ {
		if i < len(arcsPerNode) && arcsPerNode[i] != nil {
			arcs[i] = arcsPerNode[i]
		} else {
			arcs[i] = map[symbol.EdgeTag][]Target{}
		}
	}
	return &TransExe{arcs: arcs, initial: initial, finals: finals}
}

// Initial returns the initial state index.
func (t *TransExe) Initial() int32 { return t.initial }

// NumStates returns the number of states.
func (t *TransExe) NumStates() int { return len(t.arcs) }

// Targets returns the non-deterministic destinations for (state, tag).
func (t *TransExe) Targets(state int32, tag symbol.EdgeTag) []Target {
	if int(state) >= len(t.arcs) {
		return nil
	}
	return t.arcs[state][tag]
}

// EpsilonTargets returns the destinations reachable from state via the
// epsilon:epsilon edge tag, if the alphabet assigned one.
func (t *TransExe) EpsilonTargets(state int32, epsilonTag symbol.EdgeTag) []Target {
	return t.Targets(state, epsilonTag)
}

// AllTags returns every edge tag with an outgoing arc from state, for
// epsilon-closure precomputation and diagnostics.
func (t *TransExe) AllTags(state int32) []symbol.EdgeTag {
	tags := make([]symbol.EdgeTag, 0, len(t.arcs[state]))
	for tag := range t.arcs[state] {
		tags = append(tags, tag)
	}
	return tags
}

// IsFinal reports whether state is final under this TransExe, and its weight.
func (t *TransExe) IsFinal(state int32) (float64, bool) {
	w, ok := t.finals[state]
	return w, ok
}

// Finals returns the full final-state weight map (read-only view).
func (t *TransExe) Finals() map[int32]float64 { return t.finals }
