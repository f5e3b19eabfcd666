package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/options"
	"github.com/lttoolbox-go/lttb/internal/stream"
	"github.com/lttoolbox-go/lttb/internal/transducer"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

// loadDictionary reads a compiled .bin from path.
func loadDictionary(path string) (*codec.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return codec.ReadDictionary(f)
}

// writeDictionary writes d to path, truncating any existing file.
func writeDictionary(path string, d *codec.Dictionary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return codec.WriteDictionary(f, d)
}

// unionDictionarySections merges every section of a loaded dictionary into
// one Transducer, the shape a Driver needs to build a single engine.State
// over (a dictionary's sections are a storage-time split, not something the
// running engine keeps separate), and records which engine.Finality bucket
// each final state inherits from the section it came from -- UnionWith
// offsets but never renumbers a section's own node indices, so each
// section's pre-union final IDs plus its cumulative offset give exactly the
// post-union IDs to tag.
func unionDictionarySections(d *codec.Dictionary) (*transducer.Transducer, map[int32]engine.Finality) {
	nodeFinality := make(map[int32]engine.Finality)
	if len(d.Sections) == 0 {
		return transducer.New(), nodeFinality
	}

	out := d.Sections[0].Trie.Clone()
	finality := engine.ClassifySectionName(d.Sections[0].Name)
	for state := range d.Sections[0].Trie.Finals {
		nodeFinality[int32(state)] = finality
	}

	for _, sec := range d.Sections[1:] {
		offset := len(out.Nodes)
		finality := engine.ClassifySectionName(sec.Name)
		for state := range sec.Trie.Finals {
			nodeFinality[int32(state+offset)] = finality
		}
		out.UnionWith(d.Alphabet, sec.Trie)
	}
	return out, nodeFinality
}

// buildDriver loads a compiled dictionary and wires a stream.Driver over
// its unioned sections.
func buildDriver(path string, opts options.Options) (*stream.Driver, error) {
	dict, err := loadDictionary(path)
	if err != nil {
		return nil, fmt.Errorf("lttb: loading %s: %w", path, err)
	}
	tr, nodeFinality := unionDictionarySections(dict)
	exe := transexe.FromTransducer(tr)
	finals := engine.ClassifyFinals(exe, nodeFinality)
	return stream.NewDriver(dict.Alphabet, exe, finals, exe.Initial(), opts), nil
}

// loadProfile reads a YAML options profile into the loosely-typed map
// options.Decode expects, mirroring mapstructure's "decode onto a known-
// shape struct from an unknown-shape map" contract.
func loadProfile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("lttb: parsing profile %s: %w", path, err)
	}
	return out, nil
}

// resolveOptions layers a YAML profile (if --profile is set) under the
// command's own flags, which always win.
func resolveOptions(cmd *cobra.Command, flagOverrides map[string]any) (options.Options, error) {
	base := options.Default()
	profilePath, _ := cmd.Flags().GetString("profile")
	raw, err := loadProfile(profilePath)
	if err != nil {
		return base, err
	}
	if raw != nil {
		base, err = options.Decode(base, raw)
		if err != nil {
			return base, err
		}
	}
	if len(flagOverrides) > 0 {
		base, err = options.Decode(base, flagOverrides)
		if err != nil {
			return base, err
		}
	}
	return base, nil
}

func addCommonModeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("case-sensitive", false, "disable upper/lower case folding")
	cmd.Flags().Bool("null-flush", false, "segment the stream on NUL instead of EOF")
	cmd.Flags().Bool("show-weights", false, "append <weight> to every analysis")
	cmd.Flags().Int("max-analyses", 0, "cap analyses per lexical unit (0 = unlimited)")
	cmd.Flags().Int("max-weight-classes", 0, "cap distinct weight classes kept (0 = unlimited)")
}

func commonModeOverrides(cmd *cobra.Command) map[string]any {
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	nullFlush, _ := cmd.Flags().GetBool("null-flush")
	showWeights, _ := cmd.Flags().GetBool("show-weights")
	maxAnalyses, _ := cmd.Flags().GetInt("max-analyses")
	maxWeightClasses, _ := cmd.Flags().GetInt("max-weight-classes")
	return map[string]any{
		"case_sensitive":     caseSensitive,
		"null_flush":         nullFlush,
		"show_weights":       showWeights,
		"max_analyses":       maxAnalyses,
		"max_weight_classes": maxWeightClasses,
	}
}
