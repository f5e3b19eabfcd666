// Package attcompiler compiles AT&T-format transducer source (the
// tab-separated state/symbol/weight tuples lt-comp and HFST tools emit)
// into a transducer.Transducer, classifying each edge as WORD, PUNCT, or
// both by forward/backward propagation from the initial state.
package attcompiler

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fieldElement is one unit inside a single AT&T column: a bracketed
// multi-character tag, a backslash-escaped literal, or a bare literal rune.
type fieldElement struct {
	Tag     string `parser:"  @Tag"`
	Escaped string `parser:"| @Escape"`
	Literal string `parser:"| @Literal"`
}

// fieldAST is a column's full symbol sequence. Almost every real AT&T file
// has exactly one element per column (one arc, one symbol each side); this
// grammar generalizes to a sequence so multi-tag columns some AT&T emitters
// produce compile into a chain of single-symbol arcs instead of being
// rejected.
type fieldAST struct {
	Elements []*fieldElement `parser:"@@*"`
}

var fieldLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Tag", Pattern: `<[^<>]*>`},
	{Name: "Escape", Pattern: `\\.`},
	{Name: "Literal", Pattern: `.`},
})

var fieldParser = participle.MustBuild[fieldAST](
	participle.Lexer(fieldLexer),
)

func parseField(tok string) (*fieldAST, error) {
	if tok == "" {
		return &fieldAST{}, nil
	}
	return fieldParser.ParseString("", tok)
}
