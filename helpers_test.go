// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-sah-extract/archive"
)

// mapSource serves file bytes from memory and records the order of requests
type mapSource struct {
	mu       sync.Mutex
	data     map[*archive.File][]byte
	fail     map[*archive.File]error
	requests []string
}

func newMapSource() *mapSource {
	return &mapSource{
		data: make(map[*archive.File][]byte),
		fail: make(map[*archive.File]error),
	}
}

func (s *mapSource) FileData(f *archive.File) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, f.Name)
	if err, ok := s.fail[f]; ok {
		return nil, err
	}
	data, ok := s.data[f]
	if !ok {
		return nil, fmt.Errorf("unknown entry %s", f.Name)
	}
	return data, nil
}

// buildTree creates an archive tree with root name rootName from files, a map
// of slash separated paths to content. Paths ending with "/" are empty
// directories. Siblings are added in lexical order.
func buildTree(rootName string, files map[string]string) (*archive.Directory, *mapSource) {
	root := &archive.Directory{Name: rootName}
	src := newMapSource()

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		parts := strings.Split(strings.TrimSuffix(p, "/"), "/")
		d := root
		dirParts := parts[:len(parts)-1]
		if strings.HasSuffix(p, "/") {
			dirParts = parts
		}
		for _, name := range dirParts {
			child := d.Dir(name)
			if child == nil {
				child = &archive.Directory{Name: name}
				d.Directories = append(d.Directories, child)
			}
			d = child
		}
		if strings.HasSuffix(p, "/") {
			continue
		}
		f := &archive.File{Name: parts[len(parts)-1], Length: uint32(len(files[p]))}
		d.Files = append(d.Files, f)
		src.data[f] = []byte(files[p])
	}

	return root, src
}

// findFile returns the file entry at the slash separated path p below root
func findFile(t *testing.T, root *archive.Directory, p string) *archive.File {
	t.Helper()
	parts := strings.Split(p, "/")
	d := root
	for _, name := range parts[:len(parts)-1] {
		if d = d.Dir(name); d == nil {
			t.Fatalf("directory %s not found in tree", name)
		}
	}
	f := d.File(parts[len(parts)-1])
	if f == nil {
		t.Fatalf("file %s not found in tree", p)
	}
	return f
}

// readDiskTree returns all entries below dir as slash separated paths mapped to
// their content. Directories are mapped to "/".
func readDiskTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			tree[rel] = "/"
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree %s: %s", dir, err)
	}
	return tree
}

// equalTrees reports the first difference between want and got
func equalTrees(t *testing.T, want map[string]string, got map[string]string) {
	t.Helper()
	for p, content := range want {
		g, ok := got[p]
		if !ok {
			t.Errorf("missing %s", p)
			continue
		}
		if g != content {
			t.Errorf("content of %s = %q; want %q", p, g, content)
		}
	}
	for p := range got {
		if _, ok := want[p]; !ok {
			t.Errorf("unexpected entry %s", p)
		}
	}
}
