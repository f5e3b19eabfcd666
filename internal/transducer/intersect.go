package transducer

import "github.com/lttoolbox-go/lttb/internal/symbol"

func spellingEqual(a symbol.Code, alphA *symbol.Alphabet, b symbol.Code, alphB *symbol.Alphabet) bool {
	if a >= 0 && b >= 0 {
		return a == b
	}
	if a < 0 && b < 0 {
		nameA, okA := alphA.SymbolName(a)
		nameB, okB := alphB.SymbolName(b)
		return okA && okB && nameA == nameB
	}
	return false
}

type pairState struct{ self, other int }

// Intersect builds the product construction limited to transitions whose
// right-projection (lower side) in self matches the left-projection (upper
// side) in other: self.lower and other.upper must name the same symbol.
// Output arcs retain self's own edge tag (the result is expressed over
// alphSelf, unchanged): Intersect is a reachability filter over self, not a
// full relational compose. Final iff both product members are final;
// unreachable states are discarded by construction (only states reached from
// the product initial state are ever created).
//
// Two epsilon bypasses keep this a genuine composition rather than a strict
// lock-step product: a self arc whose lower is epsilon produces nothing for
// other to match, so self may step while other stays put; symmetrically, an
// other arc whose upper is epsilon needs nothing from self, so other may
// step alone (emitted as alphSelf's own epsilon:epsilon tag, since the
// result stays expressed over alphSelf). The second case is what lets a
// transducer.UnionWith-built root -- reachable from its real initial states
// only via plain epsilon:epsilon arcs -- ever be traversed at all; without
// it, the product gets stuck at the product's start pair whenever other's
// initial state has no real arcs of its own.
//
// Grounded on LAB_2/regexlib/setops.go's Product/IntersectDFA, generalized
// from a shared-rune-alphabet DFA product to a two-alphabet FST composition
// filter.
func (t *Transducer) Intersect(other *Transducer, alphSelf, alphOther *symbol.Alphabet) *Transducer {
	out := &Transducer{Finals: make(map[int]float64)}
	seen := make(map[pairState]int)
	var queue []pairState

	start := pairState{t.Initial, other.Initial}
	out.Nodes = append(out.Nodes, newNode())
	seen[start] = 0
	queue = append(queue, start)
	out.Initial = 0

	enqueue := func(np pairState) int {
		idx, ok := seen[np]
		if !ok {
			idx = len(out.Nodes)
			out.Nodes = append(out.Nodes, newNode())
			seen[np] = idx
			queue = append(queue, np)
		}
		return idx
	}

	selfEps := alphSelf.Pair(symbol.Epsilon, symbol.Epsilon)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curIdx := seen[cur]

		if selfW, ok := t.Finals[cur.self]; ok {
			if _, ok2 := other.Finals[cur.other]; ok2 {
				out.SetFinal(curIdx, selfW)
			}
		}

		for tag, targets := range t.Nodes[cur.self].Out {
			_, lower, ok := alphSelf.Decode(tag)
			if !ok {
				continue
			}
			for _, selfTgt := range targets {
				// self alone: self produces no output on this arc, so there
				// is nothing for other to match -- other does not move.
				if lower == symbol.Epsilon {
					idx := enqueue(pairState{selfTgt.Dest, cur.other})
					out.LinkStates(curIdx, idx, tag, selfTgt.Weight)
				}
				for otherTag, otherTargets := range other.Nodes[cur.other].Out {
					upperOther, _, ok2 := alphOther.Decode(otherTag)
					if !ok2 || !spellingEqual(lower, alphSelf, upperOther, alphOther) {
						continue
					}
					for _, otherTgt := range otherTargets {
						idx := enqueue(pairState{selfTgt.Dest, otherTgt.Dest})
						w := selfTgt.Weight + otherTgt.Weight
						out.LinkStates(curIdx, idx, tag, w)
					}
				}
			}
		}

		// other alone: other requires no input symbol on this arc, so self
		// does not move.
		for otherTag, otherTargets := range other.Nodes[cur.other].Out {
			upperOther, _, ok := alphOther.Decode(otherTag)
			if !ok || upperOther != symbol.Epsilon {
				continue
			}
			for _, otherTgt := range otherTargets {
				idx := enqueue(pairState{cur.self, otherTgt.Dest})
				out.LinkStates(curIdx, idx, selfEps, otherTgt.Weight)
			}
		}
	}

	return out
}
