// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package specfile resolves hierarchical benchmark specifications: spec
// files discovered inside a benchmark tree, each declaring named classes of
// instances relative to its own location. Discovery stops descending into a
// subtree as soon as it finds a spec file, so the first match wins per
// subtree while siblings keep being searched.
package specfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/benchgridgo/internal/fsutil"
	"github.com/vk/benchgridgo/internal/model"
)

// FileName is the name a nested benchmark specification must carry to be
// discovered.
const FileName = "benchspec.hcl"

// Discover walks root with an explicit stack and returns the spec files
// found, in lexical depth-first order. A directory containing a spec file
// contributes that file and is not descended into.
func Discover(root string) ([]string, error) {
	if !fsutil.IsDir(root) {
		return nil, fmt.Errorf("spec root %q does not exist", root)
	}
	var found []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		specHere := false
		for _, e := range entries {
			if !e.IsDir() && e.Name() == FileName {
				specHere = true
				break
			}
		}
		if specHere {
			found = append(found, filepath.Join(dir, FileName))
			continue
		}
		// Push in reverse so the stack pops subdirectories lexically.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				stack = append(stack, filepath.Join(dir, e.Name()))
			}
		}
	}
	return found, nil
}

// hclSpecFile mirrors the structure of a nested benchmark specification.
type hclSpecFile struct {
	Classes []*hclClass `hcl:"class,block"`
}

type hclClass struct {
	Name      string         `hcl:"name,label"`
	EncTags   []string       `hcl:"enctags,optional"`
	Encodings []*hclEncoding `hcl:"encoding,block"`
	Instances []*hclInstance `hcl:"instance,block"`
}

type hclEncoding struct {
	File string `hcl:"file"`
	Tag  string `hcl:"tag,optional"`
}

type hclInstance struct {
	Name        string         `hcl:"name,label"`
	File        string         `hcl:"file,optional"`
	Files       []string       `hcl:"files,optional"`
	Tags        []string       `hcl:"tags,optional"`
	Cmdline     string         `hcl:"cmdline,optional"`
	CmdlinePost string         `hcl:"cmdline_post,optional"`
	EncTags     *[]string      `hcl:"enctags,optional"`
	Encodings   []*hclEncoding `hcl:"encoding,block"`
}

// Source is a benchmark source backed by a spec tree. The instance tag
// expression filters which declared instances are retained; empty or
// "*all*" retains everything.
type Source struct {
	Root        string
	InstanceTag string
}

// Populate implements model.Source. Class names are namespaced with the
// spec file's directory relative to the root; file and encoding paths are
// resolved relative to the spec file's own location.
func (s *Source) Populate(b *model.Benchmark) error {
	files, err := Discover(s.Root)
	if err != nil {
		return err
	}
	expr := model.ParseTagExpr(s.InstanceTag)
	parser := hclparse.NewParser()
	for _, path := range files {
		if err := s.populateFile(b, parser, path, expr); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) populateFile(b *model.Benchmark, parser *hclparse.Parser, path string, expr model.TagExpr) error {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse spec file %s: %w", path, diags)
	}
	var spec hclSpecFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &spec); diags.HasErrors() {
		return fmt.Errorf("failed to decode spec file %s: %w", path, diags)
	}

	dir := filepath.Dir(path)
	rel, err := filepath.Rel(s.Root, dir)
	if err != nil {
		return err
	}
	for _, class := range spec.Classes {
		className := class.Name
		if rel != "." {
			className = filepath.ToSlash(rel) + "/" + class.Name
		}
		classEncs, err := resolveEncodings(dir, class.Encodings)
		if err != nil {
			return fmt.Errorf("spec file %s, class %s: %w", path, class.Name, err)
		}
		classTags := model.NewTagSet(class.EncTags...)

		for _, hi := range class.Instances {
			if !expr.Matches(model.NewTagSet(hi.Tags...)) {
				continue
			}
			inst, err := s.buildInstance(dir, classEncs, classTags, hi)
			if err != nil {
				return fmt.Errorf("spec file %s, class %s: %w", path, class.Name, err)
			}
			if err := b.AddInstance(className, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Source) buildInstance(dir string, classEncs []model.Encoding, classTags model.TagSet, hi *hclInstance) (*model.Instance, error) {
	memberFiles := hi.Files
	if hi.File != "" {
		memberFiles = append([]string{hi.File}, memberFiles...)
	}
	if len(memberFiles) == 0 {
		return nil, fmt.Errorf("instance %s declares no files", hi.Name)
	}
	memberDir := filepath.Dir(memberFiles[0])
	members := make([]model.Member, len(memberFiles))
	for i, f := range memberFiles {
		if filepath.Dir(f) != memberDir {
			return nil, fmt.Errorf("instance %s: members must share a directory", hi.Name)
		}
		members[i] = model.Member{File: filepath.Base(f)}
	}
	// The instance-level fragments ride on the first member.
	members[0].Cmdline = hi.Cmdline
	members[0].CmdlinePost = hi.CmdlinePost

	instEncs, err := resolveEncodings(dir, hi.Encodings)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", hi.Name, err)
	}
	encTags := classTags
	if hi.EncTags != nil {
		encTags = model.NewTagSet(*hi.EncTags...)
	}
	return &model.Instance{
		Dir:       filepath.Join(dir, memberDir),
		Name:      hi.Name,
		Members:   members,
		Tags:      model.NewTagSet(hi.Tags...),
		Encodings: append(append([]model.Encoding{}, classEncs...), instEncs...),
		EncTags:   encTags,
	}, nil
}

// resolveEncodings rebases declared encoding paths onto the spec file's
// directory and rejects duplicate declarations instead of deduplicating
// them silently.
func resolveEncodings(dir string, encs []*hclEncoding) ([]model.Encoding, error) {
	out := make([]model.Encoding, 0, len(encs))
	seen := make(map[string]struct{})
	for _, e := range encs {
		file := filepath.Join(dir, e.File)
		if _, dup := seen[file]; dup {
			return nil, fmt.Errorf("encoding %q declared twice", e.File)
		}
		seen[file] = struct{}{}
		out = append(out, model.Encoding{File: file, Tag: e.Tag})
	}
	return out, nil
}
