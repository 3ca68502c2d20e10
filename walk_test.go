package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree builds the scenario tree: root/a.txt (empty) and root/sub/b.log.
func makeTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "t")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.log"), []byte("log"), 0o644))
	return root
}

func TestScenarioNameAndType(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-type", "f", "-name", "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, lines(out))

	out, _, err = runFind(t, root, "-empty", "-type", "f")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, lines(out))
}

func TestImplicitPrint(t *testing.T) {
	root := makeTree(t)
	out, _, err := runFind(t, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.log"),
	}, lines(out))
}

func TestDepthBounds(t *testing.T) {
	root := makeTree(t)

	t.Run("mindepth 1 maxdepth 1", func(t *testing.T) {
		out, _, err := runFind(t, root, "-mindepth", "1", "-maxdepth", "1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "a.txt"),
			filepath.Join(root, "sub"),
		}, lines(out))
	})

	t.Run("maxdepth 0 visits only the root", func(t *testing.T) {
		out, _, err := runFind(t, root, "-maxdepth", "0")
		require.NoError(t, err)
		assert.Equal(t, []string{root}, lines(out))
	})

	t.Run("mindepth 2", func(t *testing.T) {
		out, _, err := runFind(t, root, "-mindepth", "2")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "sub", "b.log")}, lines(out))
	})
}

func TestPrunePreOrder(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-name", "sub", "-prune", "-o", "-print")
	require.NoError(t, err)
	got := lines(out)
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "a.txt")}, got)
	for _, l := range got {
		assert.NotContains(t, l, "b.log", "nothing under a pruned directory may be visited")
	}
}

func TestPostOrderOrdering(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-depth")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 4)

	pos := func(p string) int {
		for i, l := range got {
			if l == p {
				return i
			}
		}
		t.Fatalf("missing %s in %v", p, got)
		return -1
	}
	assert.Greater(t, pos(root), pos(filepath.Join(root, "sub")), "root after its children")
	assert.Greater(t, pos(filepath.Join(root, "sub")), pos(filepath.Join(root, "sub", "b.log")), "directory after its contents")
}

// Pruning structurally cannot stop a descent that already happened, so in
// post-order mode everything under a pruned directory is still visited.
func TestPruneIgnoredPostOrder(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-depth", "-name", "sub", "-prune", "-o", "-print")
	require.NoError(t, err)
	got := lines(out)
	assert.Contains(t, got, filepath.Join(root, "sub", "b.log"))
	assert.NotContains(t, got, filepath.Join(root, "sub"))
}

func TestPostOrderMindepthSkipsRoot(t *testing.T) {
	root := makeTree(t)
	out, _, err := runFind(t, root, "-depth", "-mindepth", "1")
	require.NoError(t, err)
	assert.NotContains(t, lines(out), root)
}

func TestMissingRoot(t *testing.T) {
	root := makeTree(t)
	missing := filepath.Join(t.TempDir(), "gone")

	out, errOut, err := runFind(t, missing, root, "-name", "a.txt")
	require.NoError(t, err, "a missing root must not abort the run")
	assert.Contains(t, errOut, "No such file or directory")
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, lines(out))
}

func TestFileRoot(t *testing.T) {
	root := makeTree(t)
	file := filepath.Join(root, "a.txt")

	out, _, err := runFind(t, file)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, lines(out))
}

func TestMultipleRootsInOrder(t *testing.T) {
	rootA := makeTree(t)
	rootB := filepath.Join(t.TempDir(), "u")
	require.NoError(t, os.Mkdir(rootB, 0o755))

	out, _, err := runFind(t, rootB, rootA, "-maxdepth", "0")
	require.NoError(t, err)
	assert.Equal(t, []string{rootB, rootA}, lines(out))
}

func TestQuitStopsProcessing(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-print", "-quit")
	require.NoError(t, err)
	assert.Equal(t, []string{root}, lines(out), "quit after the first entry")
}

func TestDeleteAction(t *testing.T) {
	t.Run("deletes matching files", func(t *testing.T) {
		root := makeTree(t)
		_, _, err := runFind(t, root, "-name", "a.txt", "-delete")
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(root, "a.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("failure is reported and not fatal", func(t *testing.T) {
		root := makeTree(t)
		// sub is non-empty, so removing it fails.
		out, errOut, err := runFind(t, root, "-name", "sub", "-delete", "-o", "-print")
		require.NoError(t, err)
		assert.Contains(t, errOut, "cannot delete")
		assert.NotEmpty(t, lines(out), "run continues after a delete failure")
	})
}

func TestExecActions(t *testing.T) {
	root := makeTree(t)
	target := filepath.Join(root, "a.txt")

	t.Run("exec substitutes the full path", func(t *testing.T) {
		f, _, _ := testFinder()
		var gotArgv []string
		var gotDir string
		f.runCommand = func(argv []string, dir string) error {
			gotArgv = argv
			gotDir = dir
			return nil
		}
		f.roots = []string{root}
		f.tokens = []string{"-name", "a.txt", "-exec", "echo", "found", "{}", ";"}
		require.NoError(t, f.Run(context.Background()))
		assert.Equal(t, []string{"echo", "found", target}, gotArgv)
		assert.Equal(t, "", gotDir)
	})

	t.Run("execdir substitutes the basename and sets the directory", func(t *testing.T) {
		f, _, _ := testFinder()
		var gotArgv []string
		var gotDir string
		f.runCommand = func(argv []string, dir string) error {
			gotArgv = argv
			gotDir = dir
			return nil
		}
		f.roots = []string{root}
		f.tokens = []string{"-name", "a.txt", "-execdir", "echo", "{}", ";"}
		require.NoError(t, f.Run(context.Background()))
		assert.Equal(t, []string{"echo", "a.txt"}, gotArgv)
		assert.Equal(t, root, gotDir)
	})

	t.Run("declined ok prompt skips the command", func(t *testing.T) {
		f, _, _ := testFinder()
		called := false
		f.runCommand = func(argv []string, dir string) error {
			called = true
			return nil
		}
		f.prompt = func(string) bool { return false }
		f.roots = []string{root}
		f.tokens = []string{"-name", "a.txt", "-ok", "rm", "{}", ";"}
		require.NoError(t, f.Run(context.Background()))
		assert.False(t, called)
		_, err := os.Stat(target)
		assert.NoError(t, err)
	})

	t.Run("spawn failure is reported and not fatal", func(t *testing.T) {
		f, out, errOut := testFinder()
		f.runCommand = func(argv []string, dir string) error {
			return os.ErrPermission
		}
		f.roots = []string{root}
		f.tokens = []string{"-name", "a.txt", "-exec", "true", ";", "-print"}
		require.NoError(t, f.Run(context.Background()))
		assert.Contains(t, errOut.String(), "true")
		assert.Contains(t, out.String(), target, "the action still succeeds for composition")
	})
}

// A missing -newer reference aborts the run, but output produced before the
// failing entry has already been flushed.
func TestNewerFatalAbort(t *testing.T) {
	root := makeTree(t)

	out, _, err := runFind(t, root, "-print", "-a", "-newer", filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file or directory")
	assert.Equal(t, []string{root}, lines(out), "entries printed before the abort stay printed")
}

func TestFollowSymlinks(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "inner.txt"), nil, 0o644))
	root := filepath.Join(base, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.Symlink(realDir, filepath.Join(root, "link")))

	t.Run("not followed by default", func(t *testing.T) {
		out, _, err := runFind(t, root)
		require.NoError(t, err)
		got := lines(out)
		assert.Contains(t, got, filepath.Join(root, "link"))
		assert.NotContains(t, got, filepath.Join(root, "link", "inner.txt"))
	})

	t.Run("followed with -L", func(t *testing.T) {
		out, _, err := runFind(t, root, "-L")
		require.NoError(t, err)
		assert.Contains(t, lines(out), filepath.Join(root, "link", "inner.txt"))
	})
}

func TestGitignoreFiltering(t *testing.T) {
	root := makeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))

	out, _, err := runFind(t, root, "-gitignore", "-type", "f")
	require.NoError(t, err)
	got := strings.Join(lines(out), "\n")
	assert.Contains(t, got, "a.txt")
	assert.NotContains(t, got, "b.log")
}

func TestCancellation(t *testing.T) {
	root := makeTree(t)

	f, out, _ := testFinder("-print")
	f.roots = []string{root}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestPruneSetExactPaths(t *testing.T) {
	// A pruned directory name elsewhere in the tree is not affected: the
	// prune set stores exact paths.
	base := t.TempDir()
	root := filepath.Join(base, "t")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skip", "deep"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "keep", "skip2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep", "skip2", "f"), nil, 0o644))

	out, _, err := runFind(t, root, "-name", "skip", "-prune", "-o", "-print")
	require.NoError(t, err)
	got := lines(out)
	assert.NotContains(t, got, filepath.Join(root, "skip"))
	assert.NotContains(t, got, filepath.Join(root, "skip", "deep"))
	assert.Contains(t, got, filepath.Join(root, "keep", "skip2", "f"))
}
