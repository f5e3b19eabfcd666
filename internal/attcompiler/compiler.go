package attcompiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transducer"
)

// ErrMalformedSource covers the fatal AT&T-source conditions spec.md §7
// class 2 names: an empty file, or a first line with a single column.
var ErrMalformedSource = errors.New("attcompiler: malformed AT&T source")

// ErrIllegalTopology covers the two fatal topology conditions
// original_source/lttoolbox/att_compiler.cc's classify_backwards detects:
// an epsilon transition into a final state, and an epsilon cycle reachable
// from the initial state.
var ErrIllegalTopology = errors.New("attcompiler: illegal transducer topology")

const defaultWeight = 0.0

// Kind is the WORD/PUNCT classification bitmask propagated across the
// graph before extraction.
type Kind int

const (
	KindUndecided Kind = 0
	KindWord      Kind = 1 << 0
	KindPunct     Kind = 1 << 1
)

type transduction struct {
	to     int
	tag    symbol.EdgeTag
	weight float64
	kind   Kind
	// classifiable is true when this arc's upper symbol was a single
	// literal/escaped rune (not a multi-char tag), the only case
	// original_source classifies directly from the symbol text.
	classifiable bool
	upperRune    rune
}

type node struct {
	transductions []*transduction
}

// Graph is the AT&T source parsed into AttNode-equivalent form, not yet
// split into WORD/PUNCT sub-transducers.
type Graph struct {
	alph          *symbol.Alphabet
	nodes         map[int]*node
	finals        map[int]float64
	startingState int
	letters       map[rune]bool
}

func newGraph(alph *symbol.Alphabet) *Graph {
	return &Graph{
		alph:    alph,
		nodes:   map[int]*node{},
		finals:  map[int]float64{},
		letters: map[rune]bool{},
	}
}

// Letters returns the alphabetic character set observed while parsing,
// upper/lower-paired, for storage as the binary's Dictionary.Alphabetic set.
func (g *Graph) Letters() []rune {
	out := make([]rune, 0, len(g.letters))
	for r := range g.letters {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *Graph) getNode(id int) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{}
		g.nodes[id] = n
	}
	return n
}

// convertHFST maps the HFST special symbols spec.md's corpus emits onto
// their AT&T-native spellings (epsilon, space), per
// original_source/lttoolbox/att_compiler.cc's convert_hfst.
func convertHFST(tok string) string {
	switch tok {
	case "@0@", "ε":
		return ""
	case "@_SPACE_@":
		return " "
	default:
		return tok
	}
}

func trackLetter(letters map[rune]bool, r rune) {
	letters[r] = true
	switch {
	case unicode.IsLower(r):
		letters[unicode.ToUpper(r)] = true
	case unicode.IsUpper(r):
		letters[unicode.ToLower(r)] = true
	}
}

// decodeField parses one AT&T column into a sequence of symbol codes,
// registering multichar tags in alph and tracking the module's upper/lower
// case pair for single-letter columns (mirrors symbol_code's `letters`
// bookkeeping).
func decodeField(alph *symbol.Alphabet, letters map[rune]bool, tok string) ([]symbol.Code, error) {
	ast, err := parseField(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(ast.Elements) == 0 {
		return []symbol.Code{symbol.Epsilon}, nil
	}
	codes := make([]symbol.Code, len(ast.Elements))
	for i, el := range ast.Elements {
		switch {
		case el.Tag != "":
			codes[i] = alph.Include(el.Tag)
		case el.Escaped != "":
			r := []rune(el.Escaped)[1]
			trackLetter(letters, r)
			codes[i] = symbol.Code(r)
		default:
			r := []rune(el.Literal)[0]
			if !unicode.IsPunct(r) && !unicode.IsSpace(r) {
				trackLetter(letters, r)
			}
			codes[i] = symbol.Code(r)
		}
	}
	return codes, nil
}

// Parse reads AT&T source from r into a Graph. readRL swaps the upper/lower
// column order (some dictionaries compile right-to-left).
func Parse(r io.Reader, alph *symbol.Alphabet, readRL bool) (*Graph, error) {
	g := newGraph(alph)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	firstLineInFST := true
	multipleTransducers := false
	stateIDOffset := 1
	largestSeenStateID := 0
	lineNumber := 0
	sawAnyLine := false

	eps := alph.Pair(symbol.Epsilon, symbol.Epsilon)

	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		fields := strings.Split(line, "\t")
		sawAnyLine = true

		if lineNumber == 1 && len(fields) == 1 && fields[0] == "" {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedSource)
		}
		if firstLineInFST && len(fields) == 1 {
			if fields[0] == "" {
				continue
			}
			return nil, fmt.Errorf("%w: invalid format on line %d", ErrMalformedSource, lineNumber)
		}
		if len(fields) == 1 && fields[0] == "" {
			continue
		}

		if strings.HasPrefix(fields[0], "-") {
			if stateIDOffset == 1 {
				multipleTransducers = true
			}
			stateIDOffset = largestSeenStateID + 1
			firstLineInFST = true
			continue
		}

		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad state id %q", ErrMalformedSource, lineNumber, fields[0])
		}
		from += stateIDOffset
		if from > largestSeenStateID {
			largestSeenStateID = from
		}
		source := g.getNode(from)

		if firstLineInFST {
			starting := g.getNode(g.startingState)
			starting.transductions = append(starting.transductions, &transduction{to: from, tag: eps, weight: defaultWeight})
			firstLineInFST = false
		}

		if len(fields) <= 2 {
			weight := defaultWeight
			if len(fields) > 1 {
				w, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad weight %q", ErrMalformedSource, lineNumber, fields[1])
				}
				weight = w
			}
			g.finals[from] = weight
			continue
		}

		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad state id %q", ErrMalformedSource, lineNumber, fields[1])
		}
		to += stateIDOffset
		if to > largestSeenStateID {
			largestSeenStateID = to
		}

		upperTok, lowerTok := fields[2], fields[3]
		if readRL {
			upperTok, lowerTok = fields[3], fields[2]
		}
		upperTok = convertHFST(upperTok)
		lowerTok = convertHFST(lowerTok)

		upperCodes, err := decodeField(alph, g.letters, upperTok)
		if err != nil {
			return nil, err
		}
		lowerCodes, err := decodeField(alph, g.letters, lowerTok)
		if err != nil {
			return nil, err
		}

		weight := defaultWeight
		if len(fields) > 4 {
			w, err := strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad weight %q", ErrMalformedSource, lineNumber, fields[4])
			}
			weight = w
		}

		appendChain(g, source, from, to, upperCodes, lowerCodes, weight)
		g.getNode(to)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawAnyLine {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedSource)
	}

	if !multipleTransducers {
		g.startingState = 1
	}

	classifyForwards(g)
	path := map[int]bool{}
	if _, err := classifyBackwards(g, g.startingState, path); err != nil {
		return nil, err
	}

	return g, nil
}

// appendChain links source -> ... -> (node `to`) through len(codes)-1
// synthetic intermediate states when upperCodes/lowerCodes hold more than
// one element, zero-padding the shorter side with epsilon so both sides
// advance together.
func appendChain(g *Graph, source *node, fromID, to int, upperCodes, lowerCodes []symbol.Code, weight float64) {
	n := len(upperCodes)
	if len(lowerCodes) > n {
		n = len(lowerCodes)
	}
	for len(upperCodes) < n {
		upperCodes = append(upperCodes, symbol.Epsilon)
	}
	for len(lowerCodes) < n {
		lowerCodes = append(lowerCodes, symbol.Epsilon)
	}

	cur := source
	syntheticID := -1 // synthetic pivot ids are negative, never collide with AT&T's non-negative ids
	for id := range g.nodes {
		if id <= syntheticID {
			syntheticID = id - 1 // start below every pivot an earlier chain took
		}
	}
	for i := 0; i < n; i++ {
		tag := g.alph.Pair(upperCodes[i], lowerCodes[i])
		var destID int
		var dest *node
		last := i == n-1
		if last {
			destID = to
			dest = g.getNode(to)
		} else {
			destID = syntheticID
			syntheticID--
			dest = g.getNode(destID)
		}
		tr := &transduction{to: destID, tag: tag, weight: weight}
		if upperCodes[i] >= 0x20 {
			tr.classifiable = true
			tr.upperRune = rune(upperCodes[i])
		}
		cur.transductions = append(cur.transductions, tr)
		classifySingleTransition(g, tr)
		cur = dest
	}
}

func classifySingleTransition(g *Graph, t *transduction) {
	if !t.classifiable {
		return
	}
	if g.letters[t.upperRune] {
		t.kind |= KindWord
	}
	if unicode.IsPunct(t.upperRune) {
		t.kind |= KindPunct
	}
}

// classifyForwards propagates each edge's kind onto every edge leaving its
// destination, depth-first from the starting state.
func classifyForwards(g *Graph) {
	todo := []int{g.startingState}
	done := map[int]bool{}
	for len(todo) > 0 {
		next := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if done[next] {
			continue
		}
		n1 := g.getNode(next)
		for _, t1 := range n1.transductions {
			n2 := g.getNode(t1.to)
			for _, t2 := range n2.transductions {
				t2.kind |= t1.kind
			}
			if !done[t1.to] {
				todo = append(todo, t1.to)
			}
		}
		done[next] = true
	}
}

// classifyBackwards recursively resolves the kind of initial epsilon
// transitions (transitions whose kind is still undecided) and fails fatally
// on an epsilon transition into a final state or an epsilon cycle.
func classifyBackwards(g *Graph, state int, path map[int]bool) (Kind, error) {
	if _, ok := g.finals[state]; ok {
		return 0, fmt.Errorf("%w: epsilon transition into a final state", ErrIllegalTopology)
	}
	node := g.getNode(state)
	kind := KindUndecided
	for _, t1 := range node.transductions {
		if t1.kind != KindUndecided {
			kind |= t1.kind
			continue
		}
		if path[t1.to] {
			return 0, fmt.Errorf("%w: epsilon loop", ErrIllegalTopology)
		}
		path[t1.to] = true
		k, err := classifyBackwards(g, t1.to, path)
		if err != nil {
			return 0, err
		}
		t1.kind = k
		kind |= k
		delete(path, t1.to)
	}
	return kind, nil
}

// Extract builds the sub-transducer made of edges whose kind includes
// `want` (KindWord or KindPunct), grounded on
// original_source/lttoolbox/att_compiler.cc's extract_transducer.
func Extract(g *Graph, want Kind) *transducer.Transducer {
	tr := transducer.New()
	corr := map[int]int{g.startingState: tr.Initial}
	visited := map[int]bool{}
	extractInto(g, want, g.startingState, tr, corr, visited)

	for state, weight := range g.finals {
		if t, ok := corr[state]; ok {
			tr.SetFinal(t, weight)
		}
	}
	return tr
}

func extractInto(g *Graph, want Kind, from int, tr *transducer.Transducer, corr map[int]int, visited map[int]bool) {
	if visited[from] {
		return
	}
	visited[from] = true

	source := g.getNode(from)
	for _, t1 := range source.transductions {
		if t1.kind&want != want {
			continue
		}
		fromT, exists := corr[from]
		if !exists {
			fromT = tr.NewState()
			corr[from] = fromT
		}
		toT, existed := corr[t1.to]
		if existed {
			tr.LinkStates(fromT, toT, t1.tag, t1.weight)
		} else {
			toT = tr.InsertNewSingleTransduction(t1.tag, fromT, t1.weight)
			corr[t1.to] = toT
		}
		extractInto(g, want, t1.to, tr, corr, visited)
	}
}
