// Command cozenage is the cozenage Scheme interpreter entry point: run a
// script file, or drop into the REPL with no arguments (spec.md §1/§6).
package main

import (
	"fmt"
	"os"

	"cozenage/internal/repl"
	"cozenage/internal/runner"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			showUsage()
			return
		case "-v", "--version":
			fmt.Println("cozenage", version)
			return
		}
	}

	e := runner.NewGlobalEnv()

	if len(args) == 0 {
		os.Exit(repl.Start(e))
	}

	os.Exit(runner.RunFile(e, args[0], args[1:]))
}

func showUsage() {
	fmt.Println(`usage: cozenage [script] [-- script-args...]

With no script, starts the interactive REPL.

  -h, --help     show this message
  -v, --version  print the interpreter version
  --             everything after this separates script arguments,
                 available in the script via (command-line)`)
}
