// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// A benchmark is a named grouping of instances, populated from its declared
// sources (folders to scan, explicit file lists, or nested spec trees). The
// sources only run once, on Init; afterwards the benchmark exposes a stable,
// sorted view of classes and instances with numeric ids assigned in that
// order, so repeated resolutions over an unchanged tree see the same ids.

package model

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/benchgridgo/internal/fsutil"
)

// Benchmark is a named logical grouping of instances.
type Benchmark struct {
	Name    string
	Sources []Source
	Classes []*Class

	classIndex  map[string]*Class
	initialized bool
	initErr     error
}

// Class is a benchmark class: one directory level of instances. For
// instances under a discovered spec file, the name is the spec directory
// relative to the benchmark root joined with the declared class name.
type Class struct {
	Name      string
	ID        int
	Instances []*Instance
}

// Member is one file of a (possibly grouped) instance, with optional
// per-member command-line fragments.
type Member struct {
	File        string
	Cmdline     string
	CmdlinePost string
}

// Instance is one unit of input to be run. Grouped instances carry several
// members; all members live in Dir.
type Instance struct {
	Dir     string
	Name    string
	Members []Member
	ID      int

	// Tags are the instance's own tags, used for filtering in spec files.
	Tags TagSet
	// Encodings holds container-level then instance-level encodings in
	// declaration order.
	Encodings []Encoding
	// EncTags is the effective encoding-tag set: inherited from the
	// container unless the instance overrides it.
	EncTags TagSet
}

// Paths returns the member file paths in declaration order.
func (i *Instance) Paths() []string {
	paths := make([]string, len(i.Members))
	for k, m := range i.Members {
		paths[k] = filepath.Join(i.Dir, m.File)
	}
	return paths
}

// Source populates a benchmark with instances. Populate runs exactly once
// per benchmark, from Init.
type Source interface {
	Populate(b *Benchmark) error
}

// AddSource appends a source to the benchmark.
func (b *Benchmark) AddSource(s Source) {
	b.Sources = append(b.Sources, s)
}

// AddInstance adds an instance under the named class, creating the class on
// demand. Duplicate (class, instance) pairs are rejected.
func (b *Benchmark) AddInstance(className string, inst *Instance) error {
	if b.classIndex == nil {
		b.classIndex = make(map[string]*Class)
	}
	class, ok := b.classIndex[className]
	if !ok {
		class = &Class{Name: className}
		b.classIndex[className] = class
		b.Classes = append(b.Classes, class)
	}
	for _, existing := range class.Instances {
		if existing.Name == inst.Name {
			return fmt.Errorf("benchmark %s: duplicate instance %s/%s", b.Name, className, inst.Name)
		}
	}
	class.Instances = append(class.Instances, inst)
	return nil
}

// Init populates the benchmark from its sources, sorts classes and
// instances by name, and assigns numeric ids. The result, including any
// error, is cached; a failing benchmark never aborts its siblings.
func (b *Benchmark) Init() error {
	if b.initialized {
		return b.initErr
	}
	b.initialized = true
	for _, src := range b.Sources {
		if err := src.Populate(b); err != nil {
			b.initErr = fmt.Errorf("benchmark %s: %w", b.Name, err)
			return b.initErr
		}
	}
	sort.Slice(b.Classes, func(i, j int) bool { return b.Classes[i].Name < b.Classes[j].Name })
	for ci, class := range b.Classes {
		class.ID = ci
		sort.Slice(class.Instances, func(i, j int) bool { return class.Instances[i].Name < class.Instances[j].Name })
		for ii, inst := range class.Instances {
			inst.ID = ii
		}
	}
	return nil
}

// InstanceGroup derives the instance name from a file name. With group set,
// everything from the first dot is stripped (file.1.lp -> file), otherwise
// only the last extension (file.1.lp -> file.1). A file name without a stem
// and extension is rejected.
func InstanceGroup(filename string, group bool) (string, error) {
	last := strings.LastIndex(filename, ".")
	if last <= 0 {
		return "", fmt.Errorf("invalid instance file name %q", filename)
	}
	if group {
		return filename[:strings.Index(filename, ".")], nil
	}
	return filename[:last], nil
}

// Folder is a benchmark source that recursively scans a directory for
// instance files.
type Folder struct {
	Path      string
	Group     bool
	Encodings []Encoding
	EncTags   TagSet

	ignore map[string]struct{}
}

// AddIgnore excludes a path prefix (relative to the folder) from the scan.
func (f *Folder) AddIgnore(prefix string) {
	if f.ignore == nil {
		f.ignore = make(map[string]struct{})
	}
	f.ignore[filepath.Clean(prefix)] = struct{}{}
}

func (f *Folder) skip(rel string) bool {
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return true
	}
	_, ok := f.ignore[filepath.Clean(rel)]
	return ok
}

// Populate implements Source by walking the folder. Each directory
// containing instance files becomes a class named by its path relative to
// the folder root.
func (f *Folder) Populate(b *Benchmark) error {
	if !fsutil.IsDir(f.Path) {
		return fmt.Errorf("benchmark folder %q does not exist", f.Path)
	}
	// dir -> instance name -> member files, in walk order (lexical).
	groups := make(map[string]map[string][]string)
	var dirs []string
	err := filepath.WalkDir(f.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(f.Path, path)
		if relErr != nil {
			return relErr
		}
		if rel != "." && f.skip(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name, err := InstanceGroup(d.Name(), f.Group)
		if err != nil {
			return err
		}
		dir := filepath.Dir(rel)
		if _, ok := groups[dir]; !ok {
			groups[dir] = make(map[string][]string)
			dirs = append(dirs, dir)
		}
		groups[dir][name] = append(groups[dir][name], d.Name())
		return nil
	})
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		className := filepath.ToSlash(dir)
		for name, files := range groups[dir] {
			members := make([]Member, len(files))
			for i, file := range files {
				members[i] = Member{File: file}
			}
			inst := &Instance{
				Dir:       filepath.Join(f.Path, dir),
				Name:      name,
				Members:   members,
				Encodings: f.Encodings,
				EncTags:   f.EncTags,
			}
			if err := b.AddInstance(className, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// FileAdd is one explicit file entry of a Files source. An empty Group
// derives the instance name from the file name. Fragments declared on an
// entry become member fragments of the grouped instance.
type FileAdd struct {
	File        string
	Group       string
	Cmdline     string
	CmdlinePost string
}

// Files is a benchmark source naming individual instance files, optionally
// grouped into multi-file instances.
type Files struct {
	Path      string
	Adds      []FileAdd
	Encodings []Encoding
	EncTags   TagSet
}

// Populate implements Source. Group members must exist and share a
// directory; the class is that directory relative to the source path.
func (f *Files) Populate(b *Benchmark) error {
	type entry struct {
		dir     string
		members []Member
	}
	groups := make(map[string]*entry)
	var order []string
	for _, add := range f.Adds {
		file := filepath.Clean(add.File)
		if !fsutil.Exists(filepath.Join(f.Path, file)) {
			return fmt.Errorf("instance file %q does not exist", filepath.Join(f.Path, file))
		}
		name := add.Group
		if name == "" {
			var err error
			name, err = InstanceGroup(filepath.Base(file), false)
			if err != nil {
				return err
			}
		}
		dir, base := filepath.Split(file)
		dir = filepath.Clean(dir)
		e, ok := groups[name]
		if !ok {
			e = &entry{dir: dir}
			groups[name] = e
			order = append(order, name)
		} else if e.dir != dir {
			return fmt.Errorf("instance group %q: members must share a directory", name)
		}
		e.members = append(e.members, Member{File: base, Cmdline: add.Cmdline, CmdlinePost: add.CmdlinePost})
	}
	for _, name := range order {
		e := groups[name]
		inst := &Instance{
			Dir:       filepath.Join(f.Path, e.dir),
			Name:      name,
			Members:   e.members,
			Encodings: f.Encodings,
			EncTags:   f.EncTags,
		}
		if err := b.AddInstance(filepath.ToSlash(e.dir), inst); err != nil {
			return err
		}
	}
	return nil
}
