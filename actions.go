package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Actions return true so they compose under -a/-o; failures are reported on
// stderr and the run continues. The two exceptions are -quit, which stops
// the run via errQuit, and syntax-level problems surfaced earlier by the
// parser.

func actionPrint(f *Finder, path string, args []string) (bool, error) {
	fmt.Fprintln(f.out, path)
	return true, nil
}

func actionPrint0(f *Finder, path string, args []string) (bool, error) {
	fmt.Fprintf(f.out, "%s\x00", path)
	return true, nil
}

func actionLs(f *Finder, path string, args []string) (bool, error) {
	info, err := f.lstat(path)
	if err != nil {
		// Entry vanished; nothing to list.
		return true, nil
	}
	fmt.Fprintln(f.out, lsLine(path, info))
	return true, nil
}

func actionDelete(f *Finder, path string, args []string) (bool, error) {
	if err := os.Remove(path); err != nil {
		fmt.Fprintf(f.errOut, "gofind: cannot delete '%s': %v\n", path, err)
	}
	return true, nil
}

func actionPrune(f *Finder, path string, args []string) (bool, error) {
	info, err := f.stat(path)
	if err == nil && info.IsDir() {
		log.WithField("path", path).Debug("pruned")
		f.pruned[path] = struct{}{}
	}
	return true, nil
}

func actionQuit(f *Finder, path string, args []string) (bool, error) {
	return true, errQuit
}

func actionExec(f *Finder, path string, args []string) (bool, error) {
	return f.runExec(path, args, false, false)
}

func actionOk(f *Finder, path string, args []string) (bool, error) {
	return f.runExec(path, args, true, false)
}

func actionExecdir(f *Finder, path string, args []string) (bool, error) {
	return f.runExec(path, args, false, true)
}

func actionOkdir(f *Finder, path string, args []string) (bool, error) {
	return f.runExec(path, args, true, true)
}

// runExec implements the -exec family. Every "{}" in the command is
// replaced by the entry path (the basename for the dir variants, which run
// from the entry's containing directory). The interactive variants prompt
// first; anything but an explicit yes skips the command. Spawn failures and
// non-zero exits are reported and the action still counts as successful.
func (f *Finder) runExec(path string, args []string, interactive, fromDir bool) (bool, error) {
	repl := path
	dir := ""
	if fromDir {
		repl = filepath.Base(path)
		dir = filepath.Dir(path)
	}

	argv := make([]string, len(args))
	for i, a := range args {
		argv[i] = strings.ReplaceAll(a, "{}", repl)
	}
	if len(argv) == 0 {
		return true, nil
	}

	if interactive {
		if !f.prompt(fmt.Sprintf("< %s > ? ", strings.Join(argv, " "))) {
			return true, nil
		}
	}

	log.WithFields(logrus.Fields{"argv": argv, "dir": dir}).Debug("exec")
	if err := f.runCommand(argv, dir); err != nil {
		fmt.Fprintf(f.errOut, "gofind: %s: %v\n", argv[0], err)
	}
	return true, nil
}

// runCommand is the default spawn capability: inherit the standard streams
// and block until the child exits.
func runCommand(argv []string, dir string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// askUser is the default prompt capability for -ok/-okdir: a blocking line
// read from the run's input stream. End-of-input is a "no", not an error.
func (f *Finder) askUser(prompt string) bool {
	fmt.Fprint(f.errOut, prompt)
	if f.stdin == nil {
		f.stdin = bufio.NewReader(f.in)
	}
	line, err := f.stdin.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(f.errOut)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
