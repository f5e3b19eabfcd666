package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lttoolbox-go/lttb/cmd/lttb/cli"
)

const catSource = "0\t1\tc\tc\n" +
	"1\t2\ta\ta\n" +
	"2\t3\tt\tt\n" +
	"3\t4\t<n>\t<n>\n" +
	"4\n"

func runLttb(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := cli.NewCLI()
	root.SetArgs(args)
	var out bytes.Buffer
	root.SetOut(&out)
	if stdin != "" {
		oldStdin := os.Stdin
		r, w, err := os.Pipe()
		require.NoError(t, err)
		_, err = w.WriteString(stdin)
		require.NoError(t, err)
		w.Close()
		os.Stdin = r
		defer func() { os.Stdin = oldStdin }()
	}
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCompileThenDescribe(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cat.att")
	require.NoError(t, os.WriteFile(src, []byte(catSource), 0o644))
	bin := filepath.Join(dir, "cat.bin")

	runLttb(t, "", "compile", src, bin)
	_, err := os.Stat(bin)
	require.NoError(t, err)

	out := runLttb(t, "", "describe", bin)
	require.Contains(t, out, "symbols:")
}
