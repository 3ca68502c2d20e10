package main

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL reports whether a root argument looks like a Git repository URL
// rather than a local path.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a repository's default branch into a temporary
// directory and returns its path.
func cloneGitRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "gofind-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}
	return tempDir, nil
}

// resolveGitRoots replaces git-URL roots with fresh clones so the walker
// only ever sees local paths. The returned cleanup removes the clones.
func resolveGitRoots(f *Finder) func() {
	var temps []string
	var roots []string
	for _, root := range f.roots {
		if !isGitURL(root) {
			roots = append(roots, root)
			continue
		}
		log.WithField("url", root).Debug("cloning git root")
		dir, err := cloneGitRepo(root)
		if err != nil {
			fmt.Fprintf(f.errOut, "gofind: %v\n", err)
			continue
		}
		temps = append(temps, dir)
		roots = append(roots, dir)
	}
	f.roots = roots
	return func() {
		for _, dir := range temps {
			_ = os.RemoveAll(dir)
		}
	}
}
