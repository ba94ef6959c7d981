// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"path/filepath"
)

// RunDescriptor is one fully resolved, runnable unit: pure data, immutable
// once produced. The identifier fields form the join key downstream tooling
// uses to associate results back to runs.
type RunDescriptor struct {
	Project   string
	Machine   string
	System    string
	Version   string
	Setting   string
	Benchmark string
	Class     string
	Instance  string
	Run       int

	// Files are the instance member paths, Encodings the resolved encoding
	// paths in attachment order.
	Files     []string
	Encodings []string

	// Cmdline and CmdlinePost are the composed fragment lists in the fixed
	// global order (system, setting, instance).
	Cmdline     []string
	CmdlinePost []string

	Timeout int
	Memout  int

	// Template is the run template path from the system's config;
	// DistTemplate and DistOptions come from the setting and drive batch
	// script generation for distributed jobs.
	Template     string
	DistTemplate string
	DistOptions  string

	// Path is the run directory, derived purely from identifiers.
	Path string
}

// Solver returns the "system-version" identifier.
func (d *RunDescriptor) Solver() string {
	return d.System + "-" + d.Version
}

// RunPath derives the output path for one run from its identifiers alone:
//
//	<output>/<project>/<machine>/results/<benchmark>/<system>-<version>-<setting>/<class>/<instance>/run<N>
//
// Resolution over an unchanged specification must yield byte-identical
// paths; downstream tooling keys completion markers on them.
func RunPath(output, project, machine, benchmark, system, version, setting, class, instance string, run int) string {
	return filepath.Join(output, project, machine, "results", benchmark,
		system+"-"+version+"-"+setting,
		filepath.FromSlash(class), instance, fmt.Sprintf("run%d", run))
}
