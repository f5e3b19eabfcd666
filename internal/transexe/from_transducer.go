package transexe

import (
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

// FromTransducer reorganizes a cold transducer.Transducer into a TransExe
// for constant-time symbol dispatch per state.
func FromTransducer(t *transducer.Transducer) *TransExe {
	arcs := make([]map[symbol.EdgeTag][]Target, len(t.Nodes))
	for i, node := range t.Nodes {
		m := make(map[symbol.EdgeTag][]Target, len(node.Out))
		for tag, targets := range node.Out {
			ts := make([]Target, len(targets))
			for j, tgt := range targets {
				ts[j] = Target{Dest: int32(tgt.Dest), Weight: tgt.Weight}
			}
			m[tag] = ts
		}
		arcs[i] = m
	}
	finals := make(map[int32]float64, len(t.Finals))
	for s, w := range t.Finals {
		finals[int32(s)] = w
	}
	return Load(len(t.Nodes), int32(t.Initial), arcs, finals)
}
