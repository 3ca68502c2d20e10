package main

import (
	"errors"
	"fmt"
)

// errSyntax marks malformed expressions: unknown tokens, missing arguments,
// unbalanced parentheses, a missing ';' after -exec. These abort the whole
// run.
var errSyntax = errors.New("invalid expression")

// errQuit is returned by -quit to stop all further entry processing. It is
// not an error condition; Run swallows it.
var errQuit = errors.New("quit")

// The evaluator is a recursive-descent parser that parses and evaluates in
// one pass over the shared token cursor. Every parse function takes an
// active flag: when false the function consumes exactly the tokens the
// grammar prescribes but performs no metadata lookups and no actions, so
// short-circuiting can skip work without desynchronizing the cursor.
// Suppressed parses return a placeholder true.

// evaluate runs the whole expression against one entry. Called exactly once
// per entry in active mode, which is what bounds every side effect to at
// most one firing per occurrence.
func (f *Finder) evaluate(path string) (bool, error) {
	f.pos = 0
	res, err := f.parseOr(path, true)
	if err != nil {
		return false, err
	}
	if tok, ok := f.peek(); ok {
		return false, fmt.Errorf("%w: unexpected token %q", errSyntax, tok)
	}
	return res, nil
}

func (f *Finder) peek() (string, bool) {
	if f.pos < len(f.tokens) {
		return f.tokens[f.pos], true
	}
	return "", false
}

// parseOr handles -o / -or. Once the running result is true the remaining
// operands are parsed suppressed and the result stays true.
func (f *Finder) parseOr(path string, active bool) (bool, error) {
	res, err := f.parseAnd(path, active)
	if err != nil {
		return false, err
	}
	for {
		tok, ok := f.peek()
		if !ok || (tok != "-o" && tok != "-or") {
			break
		}
		f.pos++
		sub := active && !res
		right, err := f.parseAnd(path, sub)
		if err != nil {
			return false, err
		}
		if sub {
			res = right
		}
	}
	return res, nil
}

// parseAnd handles -a / -and and implicit conjunction by adjacency. Once the
// running result is false the remaining operands are parsed suppressed.
func (f *Finder) parseAnd(path string, active bool) (bool, error) {
	res, err := f.parseNot(path, active)
	if err != nil {
		return false, err
	}
	for {
		tok, ok := f.peek()
		if !ok || tok == "-o" || tok == "-or" || tok == ")" || tok == "," {
			break
		}
		if tok == "-a" || tok == "-and" {
			f.pos++
		}
		sub := active && res
		right, err := f.parseNot(path, sub)
		if err != nil {
			return false, err
		}
		if sub {
			res = right
		}
	}
	return res, nil
}

func (f *Finder) parseNot(path string, active bool) (bool, error) {
	if tok, ok := f.peek(); ok && (tok == "!" || tok == "-not") {
		f.pos++
		res, err := f.parsePrimary(path, active)
		if err != nil {
			return false, err
		}
		if !active {
			return true, nil
		}
		return !res, nil
	}
	return f.parsePrimary(path, active)
}

// parsePrimary dispatches a single test, action, or parenthesized group
// through the registry. Argument tokens are always consumed, active or not.
func (f *Finder) parsePrimary(path string, active bool) (bool, error) {
	tok, ok := f.peek()
	if !ok {
		// A trailing implicit -a with no right operand is tolerated.
		return true, nil
	}

	if tok == "(" {
		f.pos++
		res, err := f.parseOr(path, active)
		if err != nil {
			return false, err
		}
		next, ok := f.peek()
		if !ok || next != ")" {
			return false, fmt.Errorf("%w: missing ')'", errSyntax)
		}
		f.pos++
		return res, nil
	}

	prim, known := primaries[tok]
	if !known {
		return false, fmt.Errorf("%w: unknown predicate %q", errSyntax, tok)
	}
	f.pos++

	var args []string
	if prim.variadic {
		for {
			arg, ok := f.peek()
			if !ok {
				return false, fmt.Errorf("%w: missing ';' terminating %s", errSyntax, tok)
			}
			f.pos++
			if arg == ";" {
				break
			}
			args = append(args, arg)
		}
	} else {
		for i := 0; i < prim.nargs; i++ {
			arg, ok := f.peek()
			if !ok {
				return false, fmt.Errorf("%w: missing argument to %s", errSyntax, tok)
			}
			f.pos++
			args = append(args, arg)
		}
	}

	if !active {
		return true, nil
	}
	return prim.fn(f, path, args)
}
