package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Run walks every root in order, evaluating the expression once per entry.
// A missing root is reported and skipped without affecting the others or
// the exit status. -quit stops everything immediately and is not an error.
func (f *Finder) Run(ctx context.Context) error {
	for _, root := range f.roots {
		info, err := f.lstat(root)
		if err != nil {
			fmt.Fprintf(f.errOut, "gofind: '%s': No such file or directory\n", root)
			continue
		}
		if err := f.walkRoot(ctx, root, info); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (f *Finder) walkRoot(ctx context.Context, root string, info fs.FileInfo) error {
	f.ignore = nil
	if f.opts.Gitignore {
		f.loadIgnore(root)
	}

	if !f.isDir(root, info) {
		// A plain-file root is a single entry at depth 0.
		if f.opts.MinDepth <= 0 && f.opts.MaxDepth >= 0 {
			return f.visit(ctx, root)
		}
		return nil
	}

	if f.opts.DepthFirst {
		return f.walkPost(ctx, root, 0)
	}
	return f.walkPre(ctx, root, 0)
}

// walkPre is the default pre-order traversal: a directory is evaluated
// before anything under it, so a -prune fired during its evaluation stops
// the descent entirely. Each entry is evaluated exactly once.
func (f *Finder) walkPre(ctx context.Context, dir string, depth int) error {
	if depth >= f.opts.MinDepth && depth <= f.opts.MaxDepth {
		if err := f.visit(ctx, dir); err != nil {
			return err
		}
	}
	if _, ok := f.pruned[dir]; ok {
		return nil
	}
	if depth >= f.opts.MaxDepth {
		log.WithField("dir", dir).Debug("maxdepth reached, not descending")
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(f.errOut, "gofind: '%s': %v\n", dir, err)
		return nil
	}

	childDepth := depth + 1
	var subdirs []string
	for _, ent := range entries {
		path := filepath.Join(dir, ent.Name())
		if f.ignored(path, ent) {
			continue
		}
		if f.descendable(path, ent) {
			subdirs = append(subdirs, path)
			continue
		}
		if childDepth >= f.opts.MinDepth {
			if err := f.visit(ctx, path); err != nil {
				return err
			}
		}
	}
	for _, sub := range subdirs {
		if _, ok := f.pruned[sub]; ok {
			continue
		}
		if err := f.walkPre(ctx, sub, childDepth); err != nil {
			return err
		}
	}
	return nil
}

// walkPost is the -depth traversal: files of a directory, then each
// subdirectory's subtree, then the directory itself; each root comes last
// and only when mindepth is 0. Pruning cannot take effect here, the descent
// has already happened by the time the parent is evaluated.
func (f *Finder) walkPost(ctx context.Context, dir string, depth int) error {
	if depth < f.opts.MaxDepth {
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Fprintf(f.errOut, "gofind: '%s': %v\n", dir, err)
		} else {
			childDepth := depth + 1
			var subdirs []string
			for _, ent := range entries {
				path := filepath.Join(dir, ent.Name())
				if f.ignored(path, ent) {
					continue
				}
				if f.descendable(path, ent) {
					subdirs = append(subdirs, path)
					continue
				}
				if childDepth >= f.opts.MinDepth {
					if err := f.visit(ctx, path); err != nil {
						return err
					}
				}
			}
			for _, sub := range subdirs {
				if err := f.walkPost(ctx, sub, childDepth); err != nil {
					return err
				}
			}
		}
	}
	if depth >= f.opts.MinDepth && depth <= f.opts.MaxDepth {
		return f.visit(ctx, dir)
	}
	return nil
}

// visit evaluates the expression against one entry, after checking for
// top-level cancellation. Cancellation stops the run between entries;
// an in-flight spawned command is never killed.
func (f *Finder) visit(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.WithField("path", path).Debug("evaluating")
	_, err := f.evaluate(path)
	return err
}

// isDir reports whether a root should be walked as a directory, following
// a symlink root only when -L is in effect.
func (f *Finder) isDir(path string, info fs.FileInfo) bool {
	if info.IsDir() {
		return true
	}
	if info.Mode()&fs.ModeSymlink != 0 && f.opts.Follow {
		resolved, err := f.stat(path)
		return err == nil && resolved.IsDir()
	}
	return false
}

// descendable reports whether a child entry is a directory for traversal
// purposes. Symlinked directories count only under -L; without it the
// symlink itself is evaluated as a leaf.
func (f *Finder) descendable(path string, ent fs.DirEntry) bool {
	if ent.IsDir() {
		return true
	}
	if ent.Type()&fs.ModeSymlink != 0 && f.opts.Follow {
		info, err := f.stat(path)
		return err == nil && info.IsDir()
	}
	return false
}

// loadIgnore loads the root's .gitignore when present. Nested ignore files
// are not consulted.
func (f *Finder) loadIgnore(root string) {
	ignorePath := filepath.Join(root, ".gitignore")
	if _, err := f.lstat(ignorePath); err != nil {
		return
	}
	matcher, err := gitignore.NewGitIgnore(ignorePath)
	if err != nil {
		fmt.Fprintf(f.errOut, "gofind: could not parse %s: %v\n", ignorePath, err)
		return
	}
	f.ignore = matcher
	f.ignoreBase = root
}

// ignored reports whether the gitignore matcher excludes an entry; excluded
// directories are not descended into.
func (f *Finder) ignored(path string, ent fs.DirEntry) bool {
	if f.ignore == nil {
		return false
	}
	// The matcher relativizes against the .gitignore's directory itself,
	// so it must be given the full path, not a pre-relativized one.
	if f.ignore.Match(path, ent.IsDir()) {
		log.WithField("path", path).Debug("gitignore skip")
		return true
	}
	return false
}
