package main

import (
	"context"
	"os"

	"mdtool/pkg/cli"
)

func main() {
	deps := cli.NewDeps()
	os.Exit(cli.Run(context.Background(), deps, os.Args[1:]))
}
