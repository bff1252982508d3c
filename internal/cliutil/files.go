// Package cliutil holds the driver-only concerns the pure formatting
// pipeline in the root package must never depend on: file discovery,
// ignore-file matching, atomic writes, and TTY-aware color — kept in
// internal/ the way the teacher keeps its own driver plumbing (cli.go,
// database/*) out of the packages that model pure SQL semantics.
package cliutil

import (
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the ignore file, modeled on .gitignore, read from the
// root of each directory argument.
const IgnoreFileName = ".sqlfmtignore"

// MaxExpandedFiles stops a directory walk from adding files once the
// collected list holds this many; files named directly or matched by a
// glob pattern are always added.
const MaxExpandedFiles = 20_000

var defaultExcludedDirs = map[string]bool{
	".git": true, "node_modules": true, ".hg": true, ".svn": true,
}

// ExpandArgs turns a list of CLI path/glob arguments into a deduplicated
// list of regular files, in argument order (glob matches and directory
// walks in lexical order). A directory walk honors the .sqlfmtignore at
// that directory's root; ignore files in subdirectories are not read, and
// files named directly or matched by a glob are not checked against any
// ignore file. Walks always skip VCS/dependency directories and dotfiles.
func ExpandArgs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if err := walkCollect(m, seen, &out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func walkCollect(root string, seen map[string]bool, out *[]string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return addFile(root, seen, out)
	}
	ignore := loadIgnore(root)
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if defaultExcludedDirs[name] || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if ignore != nil && ignore.match(path) {
			return nil
		}
		if len(*out) >= MaxExpandedFiles {
			return filepath.SkipAll
		}
		return addFile(path, seen, out)
	})
}

func addFile(path string, seen map[string]bool, out *[]string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if seen[abs] {
		return nil
	}
	seen[abs] = true
	*out = append(*out, path)
	return nil
}

type ignoreSet struct {
	dir      string
	patterns []string
}

func loadIgnore(dir string) *ignoreSet {
	data, err := os.ReadFile(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return nil
	}
	return &ignoreSet{dir: dir, patterns: patterns}
}

func (s *ignoreSet) match(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		rel = path
	}
	for _, pat := range s.patterns {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}
