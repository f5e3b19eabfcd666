package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// FinalitySets mirrors FSTProcessor's inconditional/standard/postblank/
// preblank finality maps plus their precomputed union, read from
// original_source/lttoolbox/fst_processor.h.
type FinalitySets struct {
	Inconditional map[int32]float64
	Standard      map[int32]float64
	Postblank     map[int32]float64
	Preblank      map[int32]float64
	All           map[int32]float64
}

func newFinalitySets() *FinalitySets {
	return &FinalitySets{
		Inconditional: map[int32]float64{},
		Standard:      map[int32]float64{},
		Postblank:     map[int32]float64{},
		Preblank:      map[int32]float64{},
		All:           map[int32]float64{},
	}
}

// Finality is the bucket a final state belongs to. Per
// original_source/lttoolbox/fst_processor.cc's classifyFinals(), this is
// determined by which dictionary *section* (by name suffix) a state's
// finality was declared in, not by scanning the state's outgoing arcs.
type Finality int

const (
	FinalityStandard Finality = iota
	FinalityPostblank
	FinalityPreblank
	FinalityInconditional
)

// ClassifySectionName maps a codec.Section.Name's "@suffix" to its finality
// bucket ("main@standard", "final@inconditional", "..@postblank",
// "..@preblank"), mirroring original_source's section-name classification.
// Unrecognized or missing suffixes are Standard.
func ClassifySectionName(name string) Finality {
	switch {
	case strings.HasSuffix(name, "@inconditional"):
		return FinalityInconditional
	case strings.HasSuffix(name, "@postblank"):
		return FinalityPostblank
	case strings.HasSuffix(name, "@preblank"):
		return FinalityPreblank
	default:
		return FinalityStandard
	}
}

// ClassifyFinals walks exe's final states once at load time and buckets each
// one using nodeFinality, a state -> Finality map the caller builds while
// unioning dictionary sections (each final inherits the Finality of the
// section it came from, via ClassifySectionName). A final state absent from
// nodeFinality (e.g. one produced without going through section union) is
// Standard.
func ClassifyFinals(exe *transexe.TransExe, nodeFinality map[int32]Finality) *FinalitySets {
	sets := newFinalitySets()
	for state, weight := range exe.Finals() {
		sets.All[state] = weight
		switch nodeFinality[state] {
		case FinalityPostblank:
			sets.Postblank[state] = weight
		case FinalityPreblank:
			sets.Preblank[state] = weight
		case FinalityInconditional:
			sets.Inconditional[state] = weight
		default:
			sets.Standard[state] = weight
		}
	}
	return sets
}

// CharClasses threads the ignored/escaped/alphabetic rune sets and the
// diacritic-restoration map through as an immutable value, per spec.md §9's
// guidance against global mutable state.
type CharClasses struct {
	Ignored     map[rune]bool
	Escaped     map[rune]bool
	Alphabetic  map[rune]bool
	Restoration map[rune][]rune
}

// RestartFinals is the compound-splitting hook: for every frontier entry
// currently in finalSet, it injects an additional frontier copy restarted
// at baseState with sepSymbol appended to its emission buffer.
func (s *State) RestartFinals(finalSet map[int32]float64, sepSymbol symbol.Code, baseState int32, joinChar symbol.Code) {
	var added []Path
	for _, p := range s.frontier {
		if _, ok := finalSet[p.Node]; !ok {
			continue
		}
		restarted := p.clone()
		restarted.Node = baseState
		if sepSymbol != symbol.Epsilon {
			restarted.Emit = append(restarted.Emit, sepSymbol)
		}
		if joinChar != symbol.Epsilon {
			restarted.Emit = append(restarted.Emit, joinChar)
		}
		added = append(added, restarted)
	}
	s.frontier = dedup(append(s.frontier, added...))
}

// PruneCompounds retains only frontier entries whose emission contains at
// least one requiredSymbol and at most maxElements occurrences of joinChar.
func (s *State) PruneCompounds(requiredSymbol, joinChar symbol.Code, maxElements int) {
	var kept []Path
	for _, p := range s.frontier {
		hasRequired := false
		joins := 0
		for _, c := range p.Emit {
			if c == requiredSymbol {
				hasRequired = true
			}
			if c == joinChar {
				joins++
			}
		}
		if hasRequired && joins <= maxElements {
			kept = append(kept, p)
		}
	}
	s.frontier = kept
}

// PruneStatesWithForbiddenSymbol drops frontier entries whose emission
// passed through forbidden; used to exclude compound-only-L fragments that
// never joined a right element.
func (s *State) PruneStatesWithForbiddenSymbol(forbidden symbol.Code) {
	var kept []Path
	for _, p := range s.frontier {
		seen := false
		for _, c := range p.Emit {
			if c == forbidden {
				seen = true
				break
			}
		}
		if !seen {
			kept = append(kept, p)
		}
	}
	s.frontier = kept
}

func groupByWeightClass(entries []finalEntry) [][]finalEntry {
	var classes [][]finalEntry
	for _, e := range entries {
		if n := len(classes); n > 0 && classes[n-1][0].total == e.total {
			classes[n-1] = append(classes[n-1], e)
			continue
		}
		classes = append(classes, []finalEntry{e})
	}
	return classes
}

func escapeRunes(in string, escapeSet map[rune]bool) string {
	if len(escapeSet) == 0 {
		return in
	}
	var b strings.Builder
	for _, r := range in {
		if escapeSet[r] {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *State) render(e finalEntry, escapeSet map[rune]bool, showWeights, allUpper, firstUpper bool) string {
	var buf []rune
	for _, c := range e.path.Emit {
		// Escape character codes only: a tag's own brackets stay bare.
		if c > 0 && escapeSet[rune(c)] {
			buf = append(buf, '\\')
		}
		s.alph.GetSymbol(&buf, c)
	}
	out := string(buf)

	switch {
	case allUpper:
		out = strings.ToUpper(out)
	case firstUpper:
		r := []rune(out)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
			out = string(r)
		}
	}

	if showWeights {
		out = fmt.Sprintf("%s<%.6f>", out, e.total)
	}
	return out
}

// FilterFinals produces the output string for a completed match: sorts
// final frontier entries by accumulated weight, groups into weight
// classes, keeps the best maxWeightClasses (0 means unlimited) and at most
// maxAnalyses (0 means unlimited) total, and joins the results with "/".
func (s *State) FilterFinals(finalSet map[int32]float64, escapeSet map[rune]bool, showWeights bool, maxAnalyses, maxWeightClasses int, allUpper, firstUpper bool) string {
	entries := s.collectFinals(finalSet)
	if len(entries) == 0 {
		return ""
	}

	classes := groupByWeightClass(entries)
	if maxWeightClasses > 0 && len(classes) > maxWeightClasses {
		classes = classes[:maxWeightClasses]
	}

	var outs []string
	for _, class := range classes {
		for _, e := range class {
			if maxAnalyses > 0 && len(outs) >= maxAnalyses {
				break
			}
			outs = append(outs, s.render(e, escapeSet, showWeights, allUpper, firstUpper))
		}
		if maxAnalyses > 0 && len(outs) >= maxAnalyses {
			break
		}
	}
	return strings.Join(outs, "/")
}

// FilterFinalsTM is the TM-analysis variant (no weights, caps or case
// recovery): each U+FFFC character in the rendered analyses is replaced, in
// order, by the next string of placeholders; extra placeholders are dropped.
func (s *State) FilterFinalsTM(finalSet map[int32]float64, escapeSet map[rune]bool, placeholders []string) string {
	base := s.FilterFinals(finalSet, escapeSet, false, 0, 0, false, false)
	if base == "" || len(placeholders) == 0 {
		return base
	}
	idx := 0
	var b strings.Builder
	for _, r := range base {
		if r == '￼' && idx < len(placeholders) {
			b.WriteString(placeholders[idx])
			idx++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FilterFinalsSAO is the SAO (XML-tagged) output variant: only the
// lowest-weight final path is rendered, and each tag symbol in its emission
// becomes an empty `<tag/>` element instead of the bracketed `<tag>` form
// GetSymbol otherwise produces.
func (s *State) FilterFinalsSAO(finalSet map[int32]float64) string {
	entries := s.collectFinals(finalSet)
	if len(entries) == 0 {
		return ""
	}
	best := entries[0]

	var b strings.Builder
	var lit []rune
	flush := func() {
		if len(lit) > 0 {
			b.WriteString(string(lit))
			lit = lit[:0]
		}
	}
	for _, c := range best.path.Emit {
		if c >= 0 {
			lit = append(lit, rune(c))
			continue
		}
		flush()
		name, ok := s.alph.SymbolName(c)
		if !ok {
			continue
		}
		tag := strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
		fmt.Fprintf(&b, "<%s/>", tag)
	}
	flush()
	return b.String()
}
