package transducer

import (
	"fmt"
	"sort"

	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// Minimize performs Hopcroft-style partition refinement over weighted edges:
// weights participate in the equivalence signature, so two states are only
// merged if every arc (and their destination block and weight) agrees.
//
// Grounded on LAB_2/regexlib/minimize.go's work-list partition refinement,
// extended from plain DFA bisimulation (label + destination block) to
// weighted bisimulation (label + destination block + weight) and from a
// single accept/non-accept split to final-weight-aware splitting (two final
// states with different weights are never equivalent).
func (t *Transducer) Minimize() *Transducer {
	if len(t.Nodes) == 0 {
		return t
	}

	// initial partition: group by (isFinal, finalWeight)
	type finalKey struct {
		final  bool
		weight float64
	}
	groups := make(map[finalKey][]int)
	for i := range t.Nodes {
		w, ok := t.Finals[i]
		groups[finalKey{ok, w}] = append(groups[finalKey{ok, w}], i)
	}

	partitions := make([][]int, 0, len(groups))
	blockOf := make([]int, len(t.Nodes))
	for _, states := range groups {
		idx := len(partitions)
		partitions = append(partitions, states)
		for _, s := range states {
			blockOf[s] = idx
		}
	}

	changed := true
	for changed {
		changed = false
		newBlockOf := make([]int, len(t.Nodes))
		var newPartitions [][]int

		for _, states := range partitions {
			sig := func(s int) string {
				node := t.Nodes[s]
				tags := make([]symbol.EdgeTag, 0, len(node.Out))
				for tag := range node.Out {
					tags = append(tags, tag)
				}
				sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
				out := ""
				for _, tag := range tags {
					targets := append([]Target(nil), node.Out[tag]...)
					sort.Slice(targets, func(i, j int) bool {
						if blockOf[targets[i].Dest] != blockOf[targets[j].Dest] {
							return blockOf[targets[i].Dest] < blockOf[targets[j].Dest]
						}
						return targets[i].Weight < targets[j].Weight
					})
					for _, tgt := range targets {
						out += fmt.Sprintf("|%d:%d:%g", tag, blockOf[tgt.Dest], tgt.Weight)
					}
				}
				return out
			}

			bySig := make(map[string][]int)
			var order []string
			for _, s := range states {
				k := sig(s)
				if _, ok := bySig[k]; !ok {
					order = append(order, k)
				}
				bySig[k] = append(bySig[k], s)
			}
			if len(bySig) > 1 {
				changed = true
			}
			for _, k := range order {
				idx := len(newPartitions)
				newPartitions = append(newPartitions, bySig[k])
				for _, s := range bySig[k] {
					newBlockOf[s] = idx
				}
			}
		}
		partitions = newPartitions
		blockOf = newBlockOf
	}

	out := &Transducer{
		Nodes:  make([]Node, len(partitions)),
		Finals: make(map[int]float64),
	}
	for i := range out.Nodes {
		out.Nodes[i] = newNode()
	}
	for blockIdx, states := range partitions {
		rep := states[0]
		if w, ok := t.Finals[rep]; ok {
			out.Finals[blockIdx] = w
		}
		for tag, targets := range t.Nodes[rep].Out {
			seen := make(map[int]float64)
			for _, tgt := range targets {
				destBlock := blockOf[tgt.Dest]
				if w, ok := seen[destBlock]; !ok || tgt.Weight < w {
					seen[destBlock] = tgt.Weight
				}
			}
			for destBlock, w := range seen {
				out.Nodes[blockIdx].Out[tag] = append(out.Nodes[blockIdx].Out[tag], Target{Dest: destBlock, Weight: w})
			}
		}
	}
	out.Initial = blockOf[t.Initial]
	return out
}
