package fsentry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// DirectorySearchOption controls walker depth.
type DirectorySearchOption int

const (
	// TopDirectoryOnly visits only the immediate children.
	TopDirectoryOnly DirectorySearchOption = iota
	// AllDirectories visits the whole subtree, breadth first.
	AllDirectories
)

// WalkFunc receives one matched entry per call. Returning
// filepath.SkipAll stops the walk cleanly; any other error aborts it.
type WalkFunc func(*Entry) error

type walkKind int

const (
	walkFiles walkKind = iota
	walkDirectories
	walkItems
)

// compilePattern translates a simple wildcard pattern into an anchored
// matcher: * matches any run, ? matches one character, everything else
// is literal. Bracket expressions have no special meaning here.
func compilePattern(pattern string) (func(string) bool, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, ErrInvalidPath)
	}
	return re.MatchString, nil
}

// walk runs the breadth-first traversal. The pattern filters what is
// emitted, never what is descended into; every subdirectory is queued
// when option is AllDirectories.
func (e *Entry) walk(pattern string, option DirectorySearchOption, kind walkKind, fn WalkFunc) error {
	if !e.IsDirectory() {
		return fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	match, err := compilePattern(pattern)
	if err != nil {
		return err
	}

	queue := []string{e.FullPath()}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return wrapOSError(err, dir, true)
		}
		for _, de := range entries {
			full := filepath.Join(dir, de.Name())
			isDir := de.IsDir()
			if isDir && option == AllDirectories {
				queue = append(queue, full)
			}

			switch kind {
			case walkFiles:
				if isDir {
					continue
				}
			case walkDirectories:
				if !isDir {
					continue
				}
			}
			if !match(de.Name()) {
				continue
			}
			if err := fn(newEntry(full)); err != nil {
				if errors.Is(err, filepath.SkipAll) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// WalkFiles calls fn for each file under the directory whose name
// matches pattern, breadth first when option is AllDirectories.
// ErrNotSupported when the entry is not an existing directory.
func (e *Entry) WalkFiles(pattern string, option DirectorySearchOption, fn WalkFunc) error {
	return e.walk(pattern, option, walkFiles, fn)
}

// WalkDirectories calls fn for each matching subdirectory.
func (e *Entry) WalkDirectories(pattern string, option DirectorySearchOption, fn WalkFunc) error {
	return e.walk(pattern, option, walkDirectories, fn)
}

// WalkItems calls fn for each matching child, files and directories
// alike.
func (e *Entry) WalkItems(pattern string, option DirectorySearchOption, fn WalkFunc) error {
	return e.walk(pattern, option, walkItems, fn)
}

func (e *Entry) collect(pattern string, option DirectorySearchOption, kind walkKind) ([]*Entry, error) {
	var out []*Entry
	err := e.walk(pattern, option, kind, func(child *Entry) error {
		out = append(out, child)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Files returns the files under the directory whose names match
// pattern, in breadth-first encounter order.
func (e *Entry) Files(pattern string, option DirectorySearchOption) ([]*Entry, error) {
	return e.collect(pattern, option, walkFiles)
}

// Directories returns the matching subdirectories.
func (e *Entry) Directories(pattern string, option DirectorySearchOption) ([]*Entry, error) {
	return e.collect(pattern, option, walkDirectories)
}

// Items returns the matching children, files and directories alike.
func (e *Entry) Items(pattern string, option DirectorySearchOption) ([]*Entry, error) {
	return e.collect(pattern, option, walkItems)
}

// Glob matches pattern against paths relative to the directory using
// full doublestar syntax, including ** and bracket classes. This is the
// richer companion to the literal wildcard walkers above.
func (e *Entry) Glob(pattern string) ([]*Entry, error) {
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	root := e.FullPath()
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, ErrInvalidPath)
	}
	out := make([]*Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, newEntry(filepath.Join(root, filepath.FromSlash(m))))
	}
	return out, nil
}

// Flatten returns every descendant of the directory, walked in parallel
// and sorted by path. Symlinks are not followed.
func (e *Entry) Flatten() ([]*Entry, error) {
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	root := e.FullPath()

	var mu sync.Mutex
	var paths []string
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("flatten: skipping unreadable entry",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, wrapOSError(err, root, true)
	}

	sort.Strings(paths)
	out := make([]*Entry, len(paths))
	for i, p := range paths {
		out[i] = newEntry(p)
	}
	return out, nil
}

// TreeNode is one node of a directory tree snapshot.
type TreeNode struct {
	Entry    *Entry
	Children []*TreeNode
}

// Tree builds a snapshot of the directory subtree rooted at the entry.
// maxDepth limits recursion; negative means unlimited. Children are in
// directory order as returned by the OS.
func (e *Entry) Tree(maxDepth int) (*TreeNode, error) {
	if !e.IsDirectory() {
		return nil, fmt.Errorf("%q is not a directory: %w", e.path, ErrNotSupported)
	}
	return buildTree(e.FullPath(), maxDepth)
}

func buildTree(path string, depth int) (*TreeNode, error) {
	node := &TreeNode{Entry: newEntry(path)}
	if depth == 0 {
		return node, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapOSError(err, path, true)
	}
	for _, de := range entries {
		child := filepath.Join(path, de.Name())
		if de.IsDir() {
			sub, err := buildTree(child, depth-1)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, sub)
			continue
		}
		node.Children = append(node.Children, &TreeNode{Entry: newEntry(child)})
	}
	return node, nil
}
