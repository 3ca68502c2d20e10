package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testFinder builds run state around a raw token stream, with writers and
// capabilities safe for tests. Callers tweak fields as needed.
func testFinder(tokens ...string) (*Finder, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	f := &Finder{
		tokens:     tokens,
		opts:       Options{MaxDepth: depthUnlimited},
		pruned:     make(map[string]struct{}),
		now:        time.Now(),
		out:        out,
		errOut:     errOut,
		in:         strings.NewReader(""),
		stat:       os.Stat,
		lstat:      os.Lstat,
		runCommand: func(argv []string, dir string) error { return nil },
		access:     accessOK,
	}
	f.prompt = f.askUser
	return f, out, errOut
}

// runFind exercises the full pipeline the way main does: argv in, captured
// stdout/stderr out.
func runFind(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	f, err := NewFinder(args)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	f.out = out
	f.errOut = errOut
	err = f.Run(context.Background())
	return out.String(), errOut.String(), err
}

// lines splits captured output into its non-empty lines.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
