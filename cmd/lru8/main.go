// lru8 is a small CLI around the lru8 cache.
//
// Usage:
//
//	lru8 repl [opts]   Interactive session over a string cache
//	lru8 sim [opts]    Replay a synthetic workload and compare hit ratios
//
// Options for 'repl':
//
//	    --branch-free   Use the branch-free LRU scan (default: true)
//	    --history       History file (default: ~/.lru8_history)
//
// Options for 'sim':
//
//	-c, --config        JSONC workload file
//	-o, --out           Write the report as JSON to this file
//	-k, --keys          Number of distinct keys
//	-n, --ops           Number of operations
//	-r, --read-ratio    Share of reads in [0, 1]
//	-d, --dist          Key distribution: uniform or zipf
//	-s, --zipf-s        Zipf exponent, > 1
//	    --seed          Random seed
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	errMissingCommand = errors.New("missing command")
	errUnknownCommand = errors.New("unknown command")
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		printUsage(errOut)
		return errMissingCommand
	}

	switch args[0] {
	case "repl":
		return runREPL(args[1:], out)
	case "sim":
		return runSim(args[1:], out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(errOut)
		return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lru8 repl [opts]   Interactive session over a string cache")
	fmt.Fprintln(w, "  lru8 sim [opts]    Replay a synthetic workload and compare hit ratios")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lru8 <command> --help' for the options of a command.")
}
