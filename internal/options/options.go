// Package options decodes the profile/flag surface shared by every
// cmd/lttb subcommand: case sensitivity, analysis/weight-class caps, and
// the StrictCompat escape hatch for original_source's biltransfull
// truncation bug.
//
// Grounded on LAB_2/cmd/regexviz's flag-to-struct pattern, generalized from
// flat CLI flags to a decodable profile struct so the same values can come
// from a YAML profile file or from Cobra flags, via
// github.com/mitchellh/mapstructure -- chosen because it's already a pack
// dependency (pulled in for exactly this "loosely-typed map into a typed
// config struct" job) rather than hand-rolling reflection.
package options

import "github.com/mitchellh/mapstructure"

// Options controls a single run of the engine/stream driver.
type Options struct {
	// CaseSensitive disables the upper/lower fallback StepFold performs.
	CaseSensitive bool `mapstructure:"case_sensitive"`
	// CarefulCase is decoded from profiles but read by no driver mode:
	// generation matches every code with its exact case whatever it is set to.
	CarefulCase bool `mapstructure:"careful_case"`
	// NullFlush segments the stream on '\0' instead of EOF.
	NullFlush bool `mapstructure:"null_flush"`
	// ShowWeights appends <weight> to every rendered analysis.
	ShowWeights bool `mapstructure:"show_weights"`
	// ShowControlSymbols keeps compound-control tags visible in output
	// instead of blanking them via symbol.Alphabet.SetBlanked.
	ShowControlSymbols bool `mapstructure:"show_control_symbols"`
	// MaxAnalyses caps FilterFinals output; 0 means unlimited.
	MaxAnalyses int `mapstructure:"max_analyses"`
	// MaxWeightClasses caps the number of distinct weight classes kept;
	// 0 means unlimited.
	MaxWeightClasses int `mapstructure:"max_weight_classes"`
	// Decompose turns on compound-splitting in the stream driver's unknown-
	// word fallback.
	Decompose bool `mapstructure:"decompose"`
	// MaxCompoundElements bounds pruneCompounds's join-char count.
	MaxCompoundElements int `mapstructure:"max_compound_elements"`
	// StrictCompat reproduces original_source/lttoolbox/fst_processor.cc's
	// `if (start_point < (end_point - 3)) return "^$"` guard in biltransfull
	// bug-for-bug, instead of the corrected behavior (spec.md §9, SPEC_FULL
	// §3.1). Off by default.
	StrictCompat bool `mapstructure:"strict_compat"`
}

// Default returns the zero-config profile: case-insensitive, unlimited
// analyses and weight classes, no compounding, corrected biltransfull
// behavior.
func Default() Options {
	return Options{
		MaxAnalyses:         0,
		MaxWeightClasses:    0,
		MaxCompoundElements: 4,
	}
}

// Decode maps a loosely-typed profile (parsed YAML, CLI flag map) onto a
// copy of base, leaving fields base already set and the input omits
// untouched.
func Decode(base Options, raw map[string]any) (Options, error) {
	out := base
	cfg := &mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return base, err
	}
	if err := dec.Decode(raw); err != nil {
		return base, err
	}
	return out, nil
}
