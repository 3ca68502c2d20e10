package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// splitArgs separates the leading root paths from the expression. A root is
// any argument before the first operator, parenthesis, or '-' token.
func splitArgs(args []string) (roots, expr []string) {
	i := 0
	for ; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") || a == "(" || a == ")" || a == "!" || a == "," {
			break
		}
		roots = append(roots, a)
	}
	return roots, args[i:]
}

// optionsFromConfig seeds Options from viper, so the config file and
// GOFIND_* environment variables can provide defaults. Tokens on the
// command line still override.
func optionsFromConfig() Options {
	opts := Options{
		MaxDepth:   depthUnlimited,
		DepthFirst: viper.GetBool("depth"),
		Follow:     viper.GetBool("follow"),
		Daystart:   viper.GetBool("daystart"),
		Gitignore:  viper.GetBool("gitignore"),
		Clipboard:  viper.GetBool("clipboard"),
	}
	if n := viper.GetInt("mindepth"); n > 0 {
		opts.MinDepth = n
	}
	if n := viper.GetInt("maxdepth"); viper.IsSet("maxdepth") && n >= 0 {
		opts.MaxDepth = n
	}
	return opts
}

// preprocessOptions consumes global options from the expression tokens
// before evaluation, returning the remaining expression. Unknown tokens are
// left in place for the evaluator, which reports them as syntax errors.
func preprocessOptions(tokens []string, opts *Options) ([]string, error) {
	intArg := func(i int, name string) (int, error) {
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("%w: missing argument to %s", errSyntax, name)
		}
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: invalid argument %q to %s", errSyntax, tokens[i+1], name)
		}
		return n, nil
	}

	var out []string
	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case "-maxdepth":
			n, err := intArg(i, tok)
			if err != nil {
				return nil, err
			}
			opts.MaxDepth = n
			i++
		case "-mindepth":
			n, err := intArg(i, tok)
			if err != nil {
				return nil, err
			}
			opts.MinDepth = n
			i++
		case "-depth", "-d":
			opts.DepthFirst = true
		case "-L", "-follow":
			opts.Follow = true
		case "-daystart":
			opts.Daystart = true
		case "-gitignore":
			opts.Gitignore = true
		case "-clipboard":
			opts.Clipboard = true
		case "-interactive":
			opts.Interactive = true
		case "-D":
			// The debug categories (tree, stat, exec, all) are accepted but
			// any value enables tracing wholesale.
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: missing argument to -D", errSyntax)
			}
			opts.Debug = true
			i++
		case "-P", "-H", "-warn", "-nowarn", "-noleaf", "-xdev", "-mount":
			// Accepted for compatibility, no effect.
		default:
			out = append(out, tok)
		}
	}
	return out, nil
}

// ensureAction appends an implicit -print when the expression contains no
// action token at all.
func ensureAction(tokens []string) []string {
	for _, tok := range tokens {
		if p, ok := primaries[tok]; ok && p.action {
			return tokens
		}
	}
	return append(tokens, "-print")
}

// NewFinder builds the run state from raw command-line arguments (paths
// followed by the expression).
func NewFinder(args []string) (*Finder, error) {
	roots, expr := splitArgs(args)
	opts := optionsFromConfig()
	expr, err := preprocessOptions(expr, &opts)
	if err != nil {
		return nil, err
	}

	rootsGiven := len(roots) > 0
	if !rootsGiven {
		roots = []string{"."}
	}

	now := time.Now()
	if opts.Daystart {
		y, m, d := now.Date()
		now = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}

	f := &Finder{
		roots:      roots,
		rootsGiven: rootsGiven,
		tokens:     ensureAction(expr),
		opts:       opts,
		pruned:     make(map[string]struct{}),
		now:        now,
		out:        os.Stdout,
		errOut:     os.Stderr,
		in:         os.Stdin,
		stat:       os.Stat,
		lstat:      os.Lstat,
		runCommand: runCommand,
		access:     accessOK,
	}
	f.prompt = f.askUser
	return f, nil
}
