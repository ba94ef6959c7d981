// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// Project is a complete benchmark execution unit: a job reference plus the
// runtag/runspec selectors that pick what runs where. The project name
// forms the second level of the output path.
type Project struct {
	Name       string
	JobName    string
	Selections []Selection
}

// Selection is either a RunTag or a RunSpec, kept in declaration order.
type Selection interface {
	isSelection()
}

// RunTag selects every system/setting whose tags satisfy the expression,
// on one machine against one benchmark.
type RunTag struct {
	Machine   string
	Benchmark string
	Tag       string
}

func (RunTag) isSelection() {}

// RunSpec selects exactly one system/version/setting. A setting name that
// is the base of a variable-expanded family selects the whole family.
type RunSpec struct {
	Machine   string
	Benchmark string
	System    string
	Version   string
	Setting   string
}

func (RunSpec) isSelection() {}
