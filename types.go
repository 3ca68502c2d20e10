package main

import (
	"bufio"
	"io"
	"io/fs"
	"math"
	"time"

	gitignore "github.com/monochromegane/go-gitignore"
)

// depthUnlimited is the maxdepth value meaning "no limit".
const depthUnlimited = math.MaxInt

// Options holds the per-run session configuration. It is populated once
// (config/env defaults, then global option tokens) and read-only during
// traversal.
type Options struct {
	MinDepth   int
	MaxDepth   int // depthUnlimited when unbounded
	DepthFirst bool
	Follow     bool
	Daystart   bool

	// Extras beyond classic find.
	Gitignore   bool
	Clipboard   bool
	Interactive bool
	Debug       bool
}

// Finder is the state for one run: the roots to walk, the expression token
// stream with its cursor, the prune set, and the capabilities the evaluator
// needs (metadata lookup, command spawning, prompting). Everything is scoped
// here rather than in package globals so runs don't interfere.
type Finder struct {
	roots      []string
	rootsGiven bool // roots came from argv (vs. the "." default)

	// Expression token stream. pos is the single cursor shared by all
	// recursive parse calls; it is reset to 0 before each entry and only
	// ever advances.
	tokens []string
	pos    int

	opts   Options
	pruned map[string]struct{}

	// Evaluation time, fixed at run start (shifted to local midnight when
	// daystart is set) so age comparisons are consistent across the run.
	now time.Time

	out    io.Writer
	errOut io.Writer
	in     io.Reader
	stdin  *bufio.Reader // lazily wraps in for -ok prompts

	// Injected capabilities. Defaults use the real filesystem and os/exec;
	// tests swap them out.
	stat       func(string) (fs.FileInfo, error)
	lstat      func(string) (fs.FileInfo, error)
	runCommand func(argv []string, dir string) error
	prompt     func(prompt string) bool
	access     func(path string, mode uint32) bool

	// Per-root gitignore matcher, set while walking a root when the
	// gitignore option is on.
	ignore     gitignore.IgnoreMatcher
	ignoreBase string
}
