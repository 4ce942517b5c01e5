package data

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file suffixes accepted as samples when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// Item is one image file together with the class directory it was found under.
type Item struct {
	Class string
	Path  string
}

// CollectImages walks root and returns every accepted image file, grouped by
// the immediate subdirectory (the class) it lives under. Class directories are
// visited in lexical order and files inside each class are gathered
// recursively, also in lexical order, so the result does not depend on
// filesystem iteration order. Files directly under root are ignored.
func CollectImages(root string, exts []string) ([]Item, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	accept := make(map[string]bool, len(exts))
	for _, e := range exts {
		accept[NormalizeExt(e)] = true
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var classDirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if isDir(root, e) {
			classDirs = append(classDirs, e.Name())
		}
	}
	sort.Strings(classDirs)

	var items []Item
	for _, class := range classDirs {
		paths, err := collectFiles(filepath.Join(root, class), accept)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			items = append(items, Item{Class: class, Path: p})
		}
	}
	return items, nil
}

// collectFiles gathers accepted files below dir in lexical order. Symlinked
// files and a symlinked dir itself are followed; symlinked subdirectories
// are not descended into.
func collectFiles(dir string, accept map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			sub, err := collectFiles(path, accept)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case isRegular(dir, e) && accept[strings.ToLower(filepath.Ext(e.Name()))]:
			out = append(out, path)
		}
	}
	return out, nil
}

// isDir reports whether e is a directory, following a symlink.
func isDir(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}

// isRegular reports whether e is a regular file, following a symlink.
// Dangling links are not files.
func isRegular(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// Classes returns the sorted set of class names that contributed at least one item.
func Classes(items []Item) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, it := range items {
		if !seen[it.Class] {
			seen[it.Class] = true
			classes = append(classes, it.Class)
		}
	}
	sort.Strings(classes)
	return classes
}

// NormalizeExt lowercases an extension and makes sure it starts with a dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
