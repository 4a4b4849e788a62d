package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sdi1982/CSharpToPython/pkg/driver"
)

const cliToolVersion = "cs2py 0.1.0-dev"

var errManifestNotFound = errors.New(driver.DefaultManifestName + " not found")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := &cli{stdout: stdout, stderr: stderr}
	root := app.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "cs2py: %v\n", err)
		return 1
	}
	return 0
}
