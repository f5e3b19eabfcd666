// Package diag wraps the module's engine/alphabet types with slog.LogValuer
// implementations so they print legibly in structured logs instead of as
// bare integers.
//
// Grounded on ollama's types/model.Digest.LogValue (log/slog used directly,
// no zap/zerolog wrapper anywhere in the pack -- this is the ecosystem way
// the corpus shows for logging, so log/slog is carried as-is rather than
// reached past).
package diag

import (
	"fmt"
	"log/slog"

	"github.com/lttoolbox-go/lttb/internal/symbol"
)

// SymbolValue wraps a symbol.Code for structured logging, rendering tags by
// spelling instead of raw negative integer.
type SymbolValue struct {
	Code symbol.Code
	Alph *symbol.Alphabet
}

var _ slog.LogValuer = SymbolValue{}

// LogValue implements slog.LogValuer.
func (s SymbolValue) LogValue() slog.Value {
	if s.Code == symbol.Epsilon {
		return slog.StringValue("ε")
	}
	if s.Code >= 0 {
		return slog.StringValue(string(rune(s.Code)))
	}
	if s.Alph != nil {
		if name, ok := s.Alph.SymbolName(s.Code); ok {
			return slog.StringValue(name)
		}
	}
	return slog.StringValue(fmt.Sprintf("<tag:%d>", -s.Code))
}

// EdgeValue wraps a symbol.EdgeTag, logging its decoded upper:lower pair.
type EdgeValue struct {
	Tag  symbol.EdgeTag
	Alph *symbol.Alphabet
}

var _ slog.LogValuer = EdgeValue{}

// LogValue implements slog.LogValuer.
func (e EdgeValue) LogValue() slog.Value {
	if e.Alph == nil {
		return slog.IntValue(int(e.Tag))
	}
	upper, lower, ok := e.Alph.Decode(e.Tag)
	if !ok {
		return slog.StringValue("<invalid edge tag>")
	}
	return slog.GroupValue(
		slog.Any("upper", SymbolValue{Code: upper, Alph: e.Alph}),
		slog.Any("lower", SymbolValue{Code: lower, Alph: e.Alph}),
	)
}

// FrontierSummary logs a coarse summary of an engine frontier without
// dumping every path (which can run into the thousands near
// MAX_COMBINATIONS).
type FrontierSummary struct {
	Size     int
	BestCost float64
}

var _ slog.LogValuer = FrontierSummary{}

// LogValue implements slog.LogValuer.
func (f FrontierSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size", f.Size),
		slog.Float64("best_cost", f.BestCost),
	)
}
