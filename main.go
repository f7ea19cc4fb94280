package main

import (
	"fmt"
	"os"

	"github.com/torvik/specmirror/cmd/cli"
)

const errorOutputTemplateConstant = "%v\n"

func main() {
	application := cli.NewApplication()
	if executionError := application.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, errorOutputTemplateConstant, executionError)
		os.Exit(1)
	}
}
