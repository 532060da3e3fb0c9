package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execAll(t *testing.T, r *REPL, out *bytes.Buffer, lines ...string) string {
	t.Helper()

	out.Reset()

	for _, line := range lines {
		require.True(t, r.exec(line), line)
	}

	return out.String()
}

func Test_REPL_Write_Then_Read_Returns_Value(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, true)

	got := execAll(t, r, &out, "write pi 3.14", "read pi", "read street")
	assert.Equal(t, "OK\n3.14\n(not found)\n", got)

	got = execAll(t, r, &out, "write greeting hello world", "peek greeting")
	assert.Equal(t, "OK\nhello world\n", got)
}

func Test_REPL_Write_Reports_Evicted_Key(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, false)

	for _, k := range []string{"zero", "one", "two", "three", "four", "five", "six", "seven"} {
		execAll(t, r, &out, "write "+k+" x")
	}

	got := execAll(t, r, &out, "write eight x")
	assert.Equal(t, "OK (evicted \"zero\")\n", got)

	got = execAll(t, r, &out, "read zero")
	assert.Equal(t, "(not found)\n", got)
}

func Test_REPL_Dump_Lists_MRU_First(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, true)

	got := execAll(t, r, &out, "dump")
	assert.Equal(t, "(empty)\n", got)

	got = execAll(t, r, &out, "write a 1", "write b 2", "read a", "dump")
	assert.True(t, strings.HasSuffix(got, "1. a = 1\n2. b = 2\n"), got)
}

func Test_REPL_Matrix_Marks_LRU_And_MRU(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, true)

	got := execAll(t, r, &out, "matrix")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "slot 0  00000000  LRU", lines[0])
	assert.Equal(t, "slot 7  01111111  MRU", lines[7])

	got = execAll(t, r, &out, "write k v", "matrix")
	assert.Contains(t, got, "slot 0  11111110  MRU")
	assert.Contains(t, got, "slot 1  00000000  LRU")
}

func Test_REPL_Clear_And_Stats(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, true)

	got := execAll(t, r, &out, "write a 1", "read a", "read b", "stats")
	assert.Contains(t, got, "size:      1/8\n")
	assert.Contains(t, got, "hits:      1\n")
	assert.Contains(t, got, "misses:    1\n")

	got = execAll(t, r, &out, "clear", "read a")
	assert.Equal(t, "OK\n(not found)\n", got)
}

func Test_REPL_Exec_Handles_Bad_Input(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newREPL(&out, true)

	got := execAll(t, r, &out, "write onlykey", "read", "peek a b", "nope")
	assert.Contains(t, got, "Usage: write <key> <value>")
	assert.Contains(t, got, "Usage: read <key>")
	assert.Contains(t, got, "Usage: peek <key>")
	assert.Contains(t, got, "Unknown command: nope")

	assert.False(t, r.exec("quit"))
}

func Test_REPL_Completer(t *testing.T) {
	t.Parallel()

	r := newREPL(&bytes.Buffer{}, true)

	assert.Equal(t, []string{"peek"}, r.completer("pe"))
	assert.Equal(t, []string{"quit", "q"}, r.completer("Q"))
	assert.Empty(t, r.completer("zzz"))
}
