// e2e_test exercises the compile -> load -> stream-driver pipeline end to
// end against the golden fixtures in testdata/, mirroring spec.md §8's six
// concrete scenarios.
package lttb_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lttoolbox-go/lttb/internal/attcompiler"
	"github.com/lttoolbox-go/lttb/internal/engine"
	"github.com/lttoolbox-go/lttb/internal/options"
	"github.com/lttoolbox-go/lttb/internal/stream"
	"github.com/lttoolbox-go/lttb/internal/symbol"
	"github.com/lttoolbox-go/lttb/internal/transexe"
)

type scenario struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`
	NullFlush bool   `yaml:"null_flush"`
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
}

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	raw, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)
	var sf scenarioFile
	require.NoError(t, yaml.Unmarshal(raw, &sf))
	return sf.Scenarios
}

// buildCatDriver compiles testdata/cat.att into a driver. readRL selects
// the analysis-direction (false) or generation-direction (true, columns
// swapped at compile time) binary -- the same split lt-comp's lr/rl modes
// produce, see internal/stream/driver_test.go's buildCatGenDict.
func buildCatDriver(t *testing.T, opts options.Options, readRL bool) *stream.Driver {
	t.Helper()
	src, err := os.Open("testdata/cat.att")
	require.NoError(t, err)
	defer src.Close()

	alph := symbol.New()
	graph, err := attcompiler.Parse(src, alph, readRL)
	require.NoError(t, err)

	word := attcompiler.Extract(graph, attcompiler.KindWord)
	exe := transexe.FromTransducer(word)
	finals := engine.ClassifyFinals(exe, nil)
	return stream.NewDriver(alph, exe, finals, exe.Initial(), opts)
}

func TestGoldenScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			opts := options.Default()
			opts.NullFlush = sc.NullFlush

			d := buildCatDriver(t, opts, sc.Mode == "generate")
			var out strings.Builder
			switch sc.Mode {
			case "analyse":
				require.NoError(t, d.ReadAnalysis(strings.NewReader(sc.Input), &out))
			case "generate":
				require.NoError(t, d.ReadGeneration(strings.NewReader(sc.Input), &out, stream.GenClean))
			default:
				t.Fatalf("unknown scenario mode %q", sc.Mode)
			}
			require.Equal(t, sc.Output, out.String())
		})
	}
}
