package stream

import (
	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// compoundJoinChar marks each compound-element boundary RestartFinals
// inserts into an emission buffer; PruneCompounds both counts it (to cap
// element count) and requires at least one (to distinguish a genuine
// compound from a single whole-word match).
const compoundJoinChar = symbol.Code('+')

// compoundAnalysis re-steps surf character by character, calling
// RestartFinals between non-final characters so any prefix that is
// itself a valid word becomes a compound element joined by
// compoundJoinChar, then prunes the result to require at least one join
// and at most d.Opts.MaxCompoundElements of them. Returns the rendered
// analysis, or "" if no compound decomposition applies.
func (d *Driver) compoundAnalysis(surf []rune) string {
	if !d.Opts.Decompose || len(surf) == 0 {
		return ""
	}
	st := engine.New(d.Alph, d.Exe)
	st.Init(d.Root)
	for i, r := range surf {
		if err := st.StepCase(r, d.Opts.CaseSensitive); err != nil || st.Size() == 0 {
			return ""
		}
		if i < len(surf)-1 {
			st.RestartFinals(d.Finals.All, symbol.Epsilon, d.Root, compoundJoinChar)
		}
	}
	st.PruneCompounds(compoundJoinChar, compoundJoinChar, d.Opts.MaxCompoundElements)
	if st.Size() == 0 {
		return ""
	}
	return st.FilterFinals(d.Finals.All, d.EscapeAt, d.Opts.ShowWeights, d.Opts.MaxAnalyses, d.Opts.MaxWeightClasses, false, false)
}
