// Package transducer implements the cold (construction-time) transducer
// representation: an arena of Nodes addressed by index, non-deterministic
// weighted arcs keyed by edge tag, and the construction operations
// (insertion, union, appendDotStar, minimize, intersect) used by the AT&T
// compiler and the trimmer.
//
// Grounded on LAB_2/regexlib's nfaState/nfaFrag/buildNFA arena-of-states
// idiom, generalized from a single-rune alphabet to the signed symbol.Code
// alphabet and from accept/reject to weighted (node, weight) targets.
package transducer

import "github.com/lttoolbox-go/lttb/internal/symbol"

// Target is one non-deterministic destination of an arc: (state, weight).
type Target struct {
	Dest   int
	Weight float64
}

// Node is a single state: an outgoing-arc table keyed by edge tag. One edge
// tag may lead to multiple Targets -- the non-determinism is explicit.
type Node struct {
	Out map[symbol.EdgeTag][]Target
}

func newNode() Node {
	return Node{Out: make(map[symbol.EdgeTag][]Target)}
}

// Transducer owns a vector of Nodes (the initial state's index is held in
// Initial; New puts it at 0) and a weighted set of final states.
type Transducer struct {
	Nodes   []Node
	Finals  map[int]float64
	Initial int
}

// New returns a Transducer with a single initial state and no finals.
func New() *Transducer {
	return &Transducer{
		Nodes:   []Node{newNode()},
		Finals:  make(map[int]float64),
		Initial: 0,
	}
}

// NewState allocates a fresh, unconnected state and returns its index.
func (t *Transducer) NewState() int {
	t.Nodes = append(t.Nodes, newNode())
	return len(t.Nodes) - 1
}

// LinkStates adds an arc from -> to labelled edgeTag with the given weight.
// Tolerates duplicates (non-determinism is a feature, not an error): the
// target is still appended even if an identical one already exists, matching
// the corpus's additive linking style (LAB_2/regexlib/nfa.go patchOuts).
func (t *Transducer) LinkStates(from, to int, tag symbol.EdgeTag, weight float64) {
	t.Nodes[from].Out[tag] = append(t.Nodes[from].Out[tag], Target{Dest: to, Weight: weight})
}

// InsertNewSingleTransduction allocates a new state, links from -> new state
// via edgeTag/weight, and returns the new state's index.
func (t *Transducer) InsertNewSingleTransduction(tag symbol.EdgeTag, from int, weight float64) int {
	to := t.NewState()
	t.LinkStates(from, to, tag, weight)
	return to
}

// SetFinal marks state final with weight. On collision (state already
// final), the minimum of the two weights is kept -- additive-weight
// semantics resolve to "cheapest path wins".
func (t *Transducer) SetFinal(state int, weight float64) {
	if cur, ok := t.Finals[state]; ok {
		if weight < cur {
			t.Finals[state] = weight
		}
		return
	}
	t.Finals[state] = weight
}

// IsFinal reports whether state is final, and its weight.
func (t *Transducer) IsFinal(state int) (float64, bool) {
	w, ok := t.Finals[state]
	return w, ok
}

// Size returns the number of states.
func (t *Transducer) Size() int { return len(t.Nodes) }

// NumTransitions returns the total number of (tag, target) arcs.
func (t *Transducer) NumTransitions() int {
	n := 0
	for _, node := range t.Nodes {
		for _, targets := range node.Out {
			n += len(targets)
		}
	}
	return n
}

// UnionWith merges `other` into t as a disjoint union, adding an epsilon arc
// from a new state (which becomes t.Initial) to both t's and other's
// original initial states. Grounded on LAB_2/regexlib/nfa.go's
// nUnion case in buildNFA, generalized from fragments to whole transducers.
func (t *Transducer) UnionWith(alph *symbol.Alphabet, other *Transducer) {
	offset := len(t.Nodes)
	for _, n := range other.Nodes {
		nn := newNode()
		for tag, targets := range n.Out {
			for _, tgt := range targets {
				nn.Out[tag] = append(nn.Out[tag], Target{Dest: tgt.Dest + offset, Weight: tgt.Weight})
			}
		}
		t.Nodes = append(t.Nodes, nn)
	}
	for state, w := range other.Finals {
		t.SetFinal(state+offset, w)
	}

	eps := alph.Pair(symbol.Epsilon, symbol.Epsilon)
	newInit := t.NewState()
	t.LinkStates(newInit, t.Initial, eps, 0)
	t.LinkStates(newInit, other.Initial+offset, eps, 0)
	t.Initial = newInit
}

// AppendDotStar adds a self-loop on every final state for each edge tag in
// loopback, preserving existing arcs and finality. Used to build the
// prefix-closing ".*" automaton consumed by the trimmer.
func (t *Transducer) AppendDotStar(loopback map[symbol.EdgeTag]bool) {
	for state := range t.Finals {
		for tag := range loopback {
			t.LinkStates(state, state, tag, 0)
		}
	}
}

// MoveLemqsLast rebuilds each state's arc map, inserting arcs labelled with
// non-control tags before those labelled with a "<@...>"-class control tag
// (classified by symbol name lookup in alph). Out is a Go map, so insertion
// order does not carry over: arcs are not iterated in any guaranteed order
// afterwards, and control arcs get no lower priority during intersection.
func (t *Transducer) MoveLemqsLast(alph *symbol.Alphabet) {
	isControl := func(tag symbol.EdgeTag) bool {
		upper, _, ok := alph.Decode(tag)
		if !ok || !symbol.IsTag(upper) {
			return false
		}
		name, ok := alph.SymbolName(upper)
		return ok && len(name) > 1 && name[0] == '<' && name[1] == '@'
	}
	for i := range t.Nodes {
		node := &t.Nodes[i]
		var controlTags []symbol.EdgeTag
		var normalTags []symbol.EdgeTag
		for tag := range node.Out {
			if isControl(tag) {
				controlTags = append(controlTags, tag)
			} else {
				normalTags = append(normalTags, tag)
			}
		}
		reordered := make(map[symbol.EdgeTag][]Target, len(node.Out))
		for _, tag := range normalTags {
			reordered[tag] = node.Out[tag]
		}
		for _, tag := range controlTags {
			reordered[tag] = node.Out[tag]
		}
		node.Out = reordered
	}
}

// Clone returns a deep copy.
func (t *Transducer) Clone() *Transducer {
	c := &Transducer{
		Nodes:   make([]Node, len(t.Nodes)),
		Finals:  make(map[int]float64, len(t.Finals)),
		Initial: t.Initial,
	}
	for i, n := range t.Nodes {
		cn := newNode()
		for tag, targets := range n.Out {
			cn.Out[tag] = append([]Target(nil), targets...)
		}
		c.Nodes[i] = cn
	}
	for s, w := range t.Finals {
		c.Finals[s] = w
	}
	return c
}
