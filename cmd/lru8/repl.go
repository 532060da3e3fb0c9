package main

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/homier/lru8"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// REPL is the interactive command loop.
type REPL struct {
	cache *lru8.Cache[string, string]
	out   io.Writer
	liner *liner.State
}

func newREPL(out io.Writer, branchFree bool) *REPL {
	return &REPL{
		cache: lru8.New(lru8.WithBranchFreeLRU[string, string](branchFree)),
		out:   out,
	}
}

func runREPL(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(out)

	branchFree := fs.Bool("branch-free", true, "Use the branch-free LRU scan")
	history := fs.String("history", defaultHistoryFile(), "History file, empty to disable")

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("parsing flags: %w", err)
	}

	return newREPL(out, *branchFree).Run(*history)
}

// defaultHistoryFile returns the path to the history file.
func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".lru8_history")
}

// Run starts the REPL loop.
func (r *REPL) Run(historyPath string) error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			r.liner.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(r.out, "lru8 - 8-entry LRU cache")
	fmt.Fprintln(r.out, "Type 'help' for available commands.")
	fmt.Fprintln(r.out)

	for {
		line, err := r.liner.Prompt("lru8> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		if !r.exec(line) {
			break
		}
	}

	r.saveHistory(historyPath)

	return nil
}

// exec runs a single command line. Returns false when the session should end.
func (r *REPL) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Bye!")
		return false

	case "help", "?":
		r.printHelp()

	case "write", "put", "set":
		r.cmdWrite(args)

	case "read", "get":
		r.cmdRead(args)

	case "peek":
		r.cmdPeek(args)

	case "clear":
		r.cache.Clear()
		fmt.Fprintln(r.out, "OK")

	case "dump", "ls":
		r.cmdDump()

	case "matrix":
		r.cmdMatrix()

	case "stats", "info":
		r.cmdStats()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return true
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory(path string) {
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"write", "put", "set",
		"read", "get", "peek",
		"clear", "dump", "ls",
		"matrix", "stats", "info",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  write <key> <value>   Insert or update an entry, evicting the LRU one")
	fmt.Fprintln(r.out, "  read <key>            Retrieve an entry and mark it as most recently used")
	fmt.Fprintln(r.out, "  peek <key>            Retrieve an entry without touching its recency")
	fmt.Fprintln(r.out, "  clear                 Drop all entries")
	fmt.Fprintln(r.out, "  dump                  List entries, most recently used first")
	fmt.Fprintln(r.out, "  matrix                Show the recency matrix")
	fmt.Fprintln(r.out, "  stats                 Show counters")
	fmt.Fprintln(r.out, "  help                  Show this help")
	fmt.Fprintln(r.out, "  exit / quit / q       Exit")
}

func (r *REPL) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: write <key> <value>")
		return
	}

	evictionsBefore := r.cache.Stats().Evictions
	victim := lruKey(r.cache)

	r.cache.Write(args[0], strings.Join(args[1:], " "))

	if r.cache.Stats().Evictions > evictionsBefore {
		fmt.Fprintf(r.out, "OK (evicted %q)\n", victim)
		return
	}

	fmt.Fprintln(r.out, "OK")
}

func (r *REPL) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: read <key>")
		return
	}

	var value string
	if !r.cache.Read(args[0], &value) {
		fmt.Fprintln(r.out, "(not found)")
		return
	}

	fmt.Fprintln(r.out, value)
}

func (r *REPL) cmdPeek(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: peek <key>")
		return
	}

	value, ok := r.cache.Peek(args[0])
	if !ok {
		fmt.Fprintln(r.out, "(not found)")
		return
	}

	fmt.Fprintln(r.out, value)
}

func (r *REPL) cmdDump() {
	if r.cache.Len() == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return
	}

	i := 0
	for k, v := range r.cache.All() {
		i++
		fmt.Fprintf(r.out, "%d. %s = %s\n", i, k, v)
	}
}

func (r *REPL) cmdMatrix() {
	m := r.cache.Matrix()

	for i := range 8 {
		row := uint8(m >> (i * 8))

		var mark string

		switch bits.OnesCount8(row) {
		case 0:
			mark = "  LRU"
		case 7:
			mark = "  MRU"
		}

		fmt.Fprintf(r.out, "slot %d  %08b%s\n", i, row, mark)
	}
}

func (r *REPL) cmdStats() {
	s := r.cache.Stats()

	fmt.Fprintf(r.out, "size:      %d/%d\n", s.Size, s.Capacity)
	fmt.Fprintf(r.out, "hits:      %d\n", s.Hits)
	fmt.Fprintf(r.out, "misses:    %d\n", s.Misses)
	fmt.Fprintf(r.out, "inserts:   %d\n", s.Inserts)
	fmt.Fprintf(r.out, "updates:   %d\n", s.Updates)
	fmt.Fprintf(r.out, "evictions: %d\n", s.Evictions)
}

// lruKey returns the least recently used live key, if the cache is full.
func lruKey(c *lru8.Cache[string, string]) string {
	if c.Len() < c.Cap() {
		return ""
	}

	var last string
	for k := range c.All() {
		last = k
	}

	return last
}
