// Command svcbus-topology checks and prints process topology files and
// interface descriptors.
//
// Usage:
//
//	svcbus-topology validate <model.yaml>...
//	svcbus-topology show [-json] <model.yaml>
//	svcbus-topology iface <iface.yaml>...
//
// validate exits with code 1 if any file breaks a topology rule. Factory
// names are not resolved; components are checked for structure only.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const usage = `svcbus-topology - Topology and interface checker

Usage:
  svcbus-topology <command> [flags] <file>...

Commands:
  validate   Check topology files against the model rules
  show       Print a topology as a tree or JSON
  iface      Print the message table of interface descriptors
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "validate":
		err = runValidate(rest, stdout)
	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(stderr)
		asJSON := fs.Bool("json", false, "Output as JSON")
		if fs.Parse(rest) != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Error: exactly one topology file required")
			return 2
		}
		err = runShow(fs.Arg(0), *asJSON, stdout)
	case "iface":
		err = runIface(rest, stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
