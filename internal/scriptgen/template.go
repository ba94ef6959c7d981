// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package scriptgen materializes a resolved plan on disk: one directory and
// start script per run, plus a launcher per project and machine. Run
// templates are user-supplied shell scripts with {run.*} placeholders; the
// launchers come from embedded templates.
package scriptgen

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vk/benchgridgo/internal/timefmt"
)

// RunVars is the substitution context for a run script template. Paths are
// relative to the run directory so generated trees can be moved wholesale.
type RunVars struct {
	Root      string
	Solver    string
	Timeout   int
	Memout    int
	File      string
	Files     []string
	Encodings []string
	Args      []string
	ArgsPost  []string

	// Options are the job's free-form template options, substituted as
	// {run.<name>} tokens.
	Options map[string]string
}

func (v RunVars) replacer() *strings.Replacer {
	pairs := []string{
		"{run.root}", v.Root,
		"{run.solver}", v.Solver,
		"{run.timeout}", strconv.Itoa(v.Timeout),
		"{run.memout}", strconv.Itoa(v.Memout),
		"{run.file}", v.File,
		"{run.files}", strings.Join(v.Files, " "),
		"{run.encodings}", strings.Join(v.Encodings, " "),
		"{run.args}", strings.Join(v.Args, " "),
		"{run.args_post}", strings.Join(v.ArgsPost, " "),
	}
	for name, value := range v.Options {
		pairs = append(pairs, "{run."+name+"}", value)
	}
	return strings.NewReplacer(pairs...)
}

// ExpandFile reads the template at path and substitutes the run
// placeholders. A missing template is an error; there is no fallback
// script.
func ExpandFile(path string, vars RunVars) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("run template: %w", err)
	}
	return vars.replacer().Replace(string(data)), nil
}

// BatchVars is the substitution context for a dispatch batch template.
type BatchVars struct {
	Walltime  int
	CPT       int
	Partition string
	Options   string
	Jobs      []string
}

func (v BatchVars) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{dist.walltime}", timefmt.Format(v.Walltime),
		"{dist.cpt}", strconv.Itoa(v.CPT),
		"{dist.partition}", v.Partition,
		"{dist.options}", v.Options,
		"{dist.jobs}", strings.Join(v.Jobs, "\n"),
	)
}

// ExpandBatchFile reads the dispatch template at path and substitutes the
// dist placeholders.
func ExpandBatchFile(path string, vars BatchVars) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("dispatch template: %w", err)
	}
	return vars.replacer().Replace(string(data)), nil
}
