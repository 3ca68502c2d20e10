package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/danwakefield/fnmatch"
	"golang.org/x/sys/unix"
)

// Tests are pure functions of (path, arguments). A stat failure because the
// entry vanished mid-walk is a non-match, not an error; the one exception is
// the -newer family, where a missing reference file aborts the run.

// compareNum applies find's signed-number rule: "N" means exactly N, "+N"
// strictly greater, "-N" strictly less. Shared by size, links, inum and all
// age tests.
func compareNum(val int64, arg string) (bool, error) {
	s := arg
	var sign byte
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign = s[0]
		s = s[1:]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: invalid number %q", errSyntax, arg)
	}
	switch sign {
	case '+':
		return val > n, nil
	case '-':
		return val < n, nil
	default:
		return val == n, nil
	}
}

func testName(f *Finder, path string, args []string) (bool, error) {
	return fnmatch.Match(args[0], filepath.Base(path), 0), nil
}

func testIname(f *Finder, path string, args []string) (bool, error) {
	return fnmatch.Match(args[0], filepath.Base(path), fnmatch.FNM_CASEFOLD), nil
}

func testPath(f *Finder, path string, args []string) (bool, error) {
	return fnmatch.Match(args[0], path, 0), nil
}

func testIpath(f *Finder, path string, args []string) (bool, error) {
	return fnmatch.Match(args[0], path, fnmatch.FNM_CASEFOLD), nil
}

func matchRegex(pattern, path string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("%w: bad regex %q: %v", errSyntax, pattern, err)
	}
	return re.MatchString(path), nil
}

func testRegex(f *Finder, path string, args []string) (bool, error) {
	return matchRegex(args[0], path)
}

func testIregex(f *Finder, path string, args []string) (bool, error) {
	return matchRegex("(?i)"+args[0], path)
}

func testType(f *Finder, path string, args []string) (bool, error) {
	info, err := f.lstat(path)
	if err != nil {
		return false, nil
	}
	mode := info.Mode()
	for _, c := range args[0] {
		var match bool
		switch c {
		case 'b':
			match = mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice == 0
		case 'c':
			match = mode&fs.ModeCharDevice != 0
		case 'd':
			match = mode.IsDir()
		case 'p':
			match = mode&fs.ModeNamedPipe != 0
		case 'f':
			match = mode.IsRegular()
		case 'l':
			match = mode&fs.ModeSymlink != 0
		case 's':
			match = mode&fs.ModeSocket != 0
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// testPerm compares permission bits in three modes: "-MODE" requires all
// listed bits, "/MODE" requires any listed bit, a bare octal requires exact
// equality.
func testPerm(f *Finder, path string, args []string) (bool, error) {
	arg := args[0]
	mode := arg
	var prefix byte
	if len(arg) > 0 && (arg[0] == '-' || arg[0] == '/') {
		prefix = arg[0]
		mode = arg[1:]
	}
	want, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return false, fmt.Errorf("%w: invalid mode %q", errSyntax, arg)
	}

	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	have := unixMode(info.Mode())
	switch prefix {
	case '-':
		return have&uint32(want) == uint32(want), nil
	case '/':
		return have&uint32(want) != 0, nil
	default:
		return have == uint32(want), nil
	}
}

// testSize rounds the file size up to whole units (512-byte blocks unless a
// suffix selects bytes, words, or binary K/M/G) and applies the signed-N
// rule to the result.
func testSize(f *Finder, path string, args []string) (bool, error) {
	arg := args[0]
	unit := int64(512)
	if n := len(arg); n > 0 {
		switch arg[n-1] {
		case 'c':
			unit, arg = 1, arg[:n-1]
		case 'w':
			unit, arg = 2, arg[:n-1]
		case 'k':
			unit, arg = 1024, arg[:n-1]
		case 'M':
			unit, arg = 1024*1024, arg[:n-1]
		case 'G':
			unit, arg = 1024*1024*1024, arg[:n-1]
		}
	}

	info, err := f.lstat(path)
	if err != nil {
		return false, nil
	}
	blocks := (info.Size() + unit - 1) / unit
	return compareNum(blocks, arg)
}

// testAge compares the entry's age in whole units against the signed-N
// argument. Ages are measured from the fixed run-start time and truncated
// toward zero at the unit boundary (Duration division), matching common
// find behavior for files touched "in the future" as well.
func (f *Finder) testAge(path, arg string, unit time.Duration, stamp func(fs.FileInfo) time.Time) (bool, error) {
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	age := f.now.Sub(stamp(info))
	return compareNum(int64(age/unit), arg)
}

func testMtime(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], 24*time.Hour, mtime)
}

func testAtime(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], 24*time.Hour, atime)
}

func testCtime(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], 24*time.Hour, ctime)
}

func testMmin(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], time.Minute, mtime)
}

func testAmin(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], time.Minute, atime)
}

func testCmin(f *Finder, path string, args []string) (bool, error) {
	return f.testAge(path, args[0], time.Minute, ctime)
}

func testEmpty(f *Finder, path string, args []string) (bool, error) {
	info, err := f.lstat(path)
	if err != nil {
		return false, nil
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		return err == nil && len(entries) == 0, nil
	}
	return info.Mode().IsRegular() && info.Size() == 0, nil
}

func testLinks(f *Finder, path string, args []string) (bool, error) {
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	st, ok := sysStat(info)
	if !ok {
		return false, nil
	}
	return compareNum(int64(st.Nlink), args[0])
}

func testInum(f *Finder, path string, args []string) (bool, error) {
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	st, ok := sysStat(info)
	if !ok {
		return false, nil
	}
	return compareNum(int64(st.Ino), args[0])
}

// testNewerBy compares timestamps against a reference file. The reference
// must exist: without it the comparison has no defined answer, so a lookup
// failure is fatal for the whole run.
func (f *Finder) testNewerBy(path, ref string, stamp func(fs.FileInfo) time.Time) (bool, error) {
	refInfo, err := f.stat(ref)
	if err != nil {
		return false, fmt.Errorf("'%s': No such file or directory", ref)
	}
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	return stamp(info).After(stamp(refInfo)), nil
}

func testNewer(f *Finder, path string, args []string) (bool, error) {
	return f.testNewerBy(path, args[0], mtime)
}

func testAnewer(f *Finder, path string, args []string) (bool, error) {
	return f.testNewerBy(path, args[0], atime)
}

func testCnewer(f *Finder, path string, args []string) (bool, error) {
	return f.testNewerBy(path, args[0], ctime)
}

func lookupUID(arg string) (uint32, error) {
	if u, err := user.Lookup(arg); err == nil {
		id, _ := strconv.Atoi(u.Uid)
		return uint32(id), nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 0 {
		return uint32(n), nil
	}
	return 0, fmt.Errorf("%w: %q is not the name of a known user", errSyntax, arg)
}

func lookupGID(arg string) (uint32, error) {
	if g, err := user.LookupGroup(arg); err == nil {
		id, _ := strconv.Atoi(g.Gid)
		return uint32(id), nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 0 {
		return uint32(n), nil
	}
	return 0, fmt.Errorf("%w: %q is not the name of a known group", errSyntax, arg)
}

func testUser(f *Finder, path string, args []string) (bool, error) {
	uid, err := lookupUID(args[0])
	if err != nil {
		return false, err
	}
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	st, ok := sysStat(info)
	return ok && st.Uid == uid, nil
}

func testGroup(f *Finder, path string, args []string) (bool, error) {
	gid, err := lookupGID(args[0])
	if err != nil {
		return false, err
	}
	info, err := f.stat(path)
	if err != nil {
		return false, nil
	}
	st, ok := sysStat(info)
	return ok && st.Gid == gid, nil
}

// accessOK is the default access capability, asking the kernel with the
// real uid/gid semantics of access(2).
func accessOK(path string, mode uint32) bool {
	return unix.Access(path, mode) == nil
}

func testReadable(f *Finder, path string, args []string) (bool, error) {
	return f.access(path, unix.R_OK), nil
}

func testWritable(f *Finder, path string, args []string) (bool, error) {
	return f.access(path, unix.W_OK), nil
}

func testExecutable(f *Finder, path string, args []string) (bool, error) {
	return f.access(path, unix.X_OK), nil
}

func testTrue(f *Finder, path string, args []string) (bool, error) {
	return true, nil
}

func testFalse(f *Finder, path string, args []string) (bool, error) {
	return false, nil
}
