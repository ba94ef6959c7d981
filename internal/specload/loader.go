// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package specload reads benchmark specifications written in HCL and
// translates them into the model. Loading is two-phase: first every block
// is decoded and registered in the name-indexed tables on the runscript,
// then system config references are linked. Project references (job,
// machine, benchmark, system) stay as names for the resolver to check.
// Structural errors are accumulated, so one invocation surfaces every
// problem instead of stopping at the first.
package specload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/benchgridgo/internal/ctxlog"
	"github.com/vk/benchgridgo/internal/fsutil"
	"github.com/vk/benchgridgo/internal/model"
	"github.com/vk/benchgridgo/internal/specfile"
)

// Loader parses specification files into the model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader returns a ready Loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads the given specification paths (files, or directories whose
// immediate .hcl files are taken) and returns the assembled model. All
// structural errors encountered are accumulated and joined.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Runscript, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		if fsutil.IsDir(path) {
			matches, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				// Nested benchmark specs load through their benchmark's
				// spec source, not as part of the runscript.
				if filepath.Base(m) == specfile.FileName {
					continue
				}
				files = append(files, m)
			}
		} else {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no specification files found in %v", paths)
	}

	var roots []*hclRoot
	for _, file := range files {
		logger.Debug("parsing specification file", "path", file)
		root, err := l.parseFile(file)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return translate(roots)
}

func (l *Loader) parseFile(path string) (*hclRoot, error) {
	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	var root hclRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}
	return &root, nil
}

// translate assembles the model from the decoded files, accumulating every
// structural error.
func translate(roots []*hclRoot) (*model.Runscript, error) {
	var errs []error
	output := ""
	for _, root := range roots {
		if root.Output == "" {
			continue
		}
		if output != "" && output != root.Output {
			errs = append(errs, fmt.Errorf("conflicting output directories %q and %q", output, root.Output))
			continue
		}
		output = root.Output
	}
	if output == "" {
		errs = append(errs, errors.New("no output directory declared"))
	}

	rs := model.NewRunscript(output)
	for _, root := range roots {
		translateRoot(rs, root, &errs)
	}
	for _, sys := range rs.Systems {
		cfg, ok := rs.Config(sys.ConfigName)
		if !ok {
			errs = append(errs, fmt.Errorf("system %s-%s: unknown config %q", sys.Name, sys.Version, sys.ConfigName))
			continue
		}
		sys.Config = cfg
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rs, nil
}

func translateRoot(rs *model.Runscript, root *hclRoot, errs *[]error) {
	collect := func(err error) {
		if err != nil {
			*errs = append(*errs, err)
		}
	}

	for _, m := range root.Machines {
		collect(rs.AddMachine(&model.Machine{Name: m.Name, CPU: m.CPU, Memory: m.Memory}))
	}
	for _, c := range root.Configs {
		collect(rs.AddConfig(&model.Config{Name: c.Name, Template: c.Template}))
	}
	for _, j := range root.SeqJobs {
		job, err := translateSeqJob(j)
		if err != nil {
			collect(err)
			continue
		}
		collect(rs.AddJob(job))
	}
	for _, j := range root.DistJobs {
		job, err := translateDistJob(j)
		if err != nil {
			collect(err)
			continue
		}
		collect(rs.AddJob(job))
	}
	for _, s := range root.Systems {
		sys, err := translateSystem(s)
		if err != nil {
			collect(err)
			continue
		}
		collect(rs.AddSystem(sys))
	}
	for _, b := range root.Benchmarks {
		bench, err := translateBenchmark(b)
		if err != nil {
			collect(err)
			continue
		}
		collect(rs.AddBenchmark(bench))
	}
	for _, p := range root.Projects {
		collect(rs.AddProject(translateProject(p)))
	}
}
