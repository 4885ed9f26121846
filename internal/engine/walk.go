package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs contains directory names excluded from scanning.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"build":        true,
	"dist":         true,
	"target":       true,
}

// listSourceFiles returns the Java files under dir, relative to dir, in a
// stable order. It uses git ls-files when inside a git repository; otherwise
// it falls back to filepath.WalkDir.
func listSourceFiles(ctx context.Context, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", dir)
	}

	relPaths, err := gitLsFiles(ctx, dir)
	if err != nil {
		relPaths, err = walkFiles(dir)
		if err != nil {
			return nil, err
		}
	}

	var files []string
	for _, rel := range relPaths {
		if shouldSkip(rel) || filepath.Ext(rel) != ".java" {
			continue
		}
		files = append(files, rel)
	}
	sort.Strings(files)
	return files, nil
}

// gitLsFiles runs "git ls-files" in dir and returns the output lines.
// Returns an error if dir is not inside a git repository.
func gitLsFiles(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

// walkFiles uses filepath.WalkDir to list all files under dir, skipping
// directories in the skipDirs set.
func walkFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	return paths, err
}

// shouldSkip returns true if the relative path is inside a directory that
// should be excluded from scanning.
func shouldSkip(relPath string) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts {
		if skipDirs[part] {
			return true
		}
	}
	return false
}
