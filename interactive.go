package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// pickRoots scans the current directory and opens a fuzzy finder so the
// user can select the paths to walk. Returns nil (and no error) when the
// selection is aborted.
func pickRoots() ([]string, error) {
	candidates := []string{"."}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == "." {
			return nil
		}
		// Hidden trees make for a noisy picker; walk them only on request
		// via an explicit root argument instead.
		if name := d.Name(); len(name) > 0 && name[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for candidates: %w", err)
	}

	idxs, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the roots to walk. Tab to multi-select, Enter to confirm."
			}
			info, statErr := os.Stat(candidates[i])
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError: %v", candidates[i], statErr)
			}
			kind := "File"
			if info.IsDir() {
				kind = "Directory"
			}
			return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", candidates[i], kind, info.Size())
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, err
	}

	roots := make([]string, len(idxs))
	for i, idx := range idxs {
		roots[i] = candidates[idx]
	}
	return roots, nil
}
