package main

import (
	"context"
	"os"

	"github.com/lttoolbox-go/lttb/cmd/lttb/cli"
)

func main() {
	if err := cli.NewCLI().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
