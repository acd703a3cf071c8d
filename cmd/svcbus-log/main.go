// Command svcbus-log views and analyzes svcbus trace files.
//
// Trace files are written by a log.FileLogger attached to a router service
// table or a timer manager as its ProtocolLogger.
//
// Usage:
//
//	svcbus-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View only timer events
//	svcbus-log view --layer timer router.blog
//
//	# View everything that happened on connection 256
//	svcbus-log view --cookie 256 router.blog
//
//	# Keep the events of one proxy path
//	svcbus-log filter --address HelloWorld/1.0.0 -o hello.blog router.blog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mash-protocol/svcbus/cmd/svcbus-log/commands"
)

const usage = `svcbus-log - svcbus Trace Analyzer

Usage:
  svcbus-log <command> [flags] <file.blog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "svcbus-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// selectionFlags registers the flags shared by view and filter.
func selectionFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.InstanceID, "instance", "", "Filter by router or timer manager instance ID")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (router, proxy, timer, wire)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter messages by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, timer, error)")
	fs.StringVar(&opts.Thread, "thread", "", "Filter by dispatcher thread name")
	fs.StringVar(&opts.Cookie, "cookie", "", "Filter by connection cookie")
	fs.StringVar(&opts.Address, "address", "", "Filter by address path substring")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

func parseFileArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `svcbus-log view - View trace file in human-readable format

Usage:
  svcbus-log view [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := selectionFlags(fs)
	path := parseFileArg(fs, args)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `svcbus-log export - Export trace file to JSONL or CSV

Usage:
  svcbus-log export [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseFileArg(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `svcbus-log filter - Filter trace file and write to new file

Usage:
  svcbus-log filter [flags] <file.blog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := selectionFlags(fs)
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	path := parseFileArg(fs, args)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, *opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `svcbus-log stats - Show statistics about the trace file

Usage:
  svcbus-log stats <file.blog>

`)
	}
	path := parseFileArg(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
