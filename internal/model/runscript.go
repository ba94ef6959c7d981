// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// SystemKey identifies a system by name and version.
type SystemKey struct {
	Name    string
	Version string
}

// Runscript is the root of the specification graph: every entity registered
// under its name, declarations kept in order for deterministic iteration.
type Runscript struct {
	Output string

	Machines   []*Machine
	Configs    []*Config
	Systems    []*System
	Jobs       []Job
	Benchmarks []*Benchmark
	Projects   []*Project

	machineIndex   map[string]*Machine
	configIndex    map[string]*Config
	systemIndex    map[SystemKey]*System
	jobIndex       map[string]Job
	benchmarkIndex map[string]*Benchmark
	projectIndex   map[string]*Project
}

// NewRunscript creates an empty specification graph writing to the given
// output directory.
func NewRunscript(output string) *Runscript {
	return &Runscript{
		Output:         output,
		machineIndex:   make(map[string]*Machine),
		configIndex:    make(map[string]*Config),
		systemIndex:    make(map[SystemKey]*System),
		jobIndex:       make(map[string]Job),
		benchmarkIndex: make(map[string]*Benchmark),
		projectIndex:   make(map[string]*Project),
	}
}

// AddMachine registers a machine; names must be unique.
func (r *Runscript) AddMachine(m *Machine) error {
	if _, ok := r.machineIndex[m.Name]; ok {
		return fmt.Errorf("duplicate machine %q", m.Name)
	}
	r.machineIndex[m.Name] = m
	r.Machines = append(r.Machines, m)
	return nil
}

// AddConfig registers a run template reference; names must be unique.
func (r *Runscript) AddConfig(c *Config) error {
	if _, ok := r.configIndex[c.Name]; ok {
		return fmt.Errorf("duplicate config %q", c.Name)
	}
	r.configIndex[c.Name] = c
	r.Configs = append(r.Configs, c)
	return nil
}

// AddSystem registers a system; (name, version) pairs must be unique.
func (r *Runscript) AddSystem(s *System) error {
	key := SystemKey{s.Name, s.Version}
	if _, ok := r.systemIndex[key]; ok {
		return fmt.Errorf("duplicate system %s", s.Solver())
	}
	r.systemIndex[key] = s
	r.Systems = append(r.Systems, s)
	return nil
}

// AddJob registers a job; names must be unique across both kinds.
func (r *Runscript) AddJob(j Job) error {
	name := j.Common().Name
	if _, ok := r.jobIndex[name]; ok {
		return fmt.Errorf("duplicate job %q", name)
	}
	r.jobIndex[name] = j
	r.Jobs = append(r.Jobs, j)
	return nil
}

// AddBenchmark registers a benchmark; names must be unique.
func (r *Runscript) AddBenchmark(b *Benchmark) error {
	if _, ok := r.benchmarkIndex[b.Name]; ok {
		return fmt.Errorf("duplicate benchmark %q", b.Name)
	}
	r.benchmarkIndex[b.Name] = b
	r.Benchmarks = append(r.Benchmarks, b)
	return nil
}

// AddProject registers a project; names must be unique.
func (r *Runscript) AddProject(p *Project) error {
	if _, ok := r.projectIndex[p.Name]; ok {
		return fmt.Errorf("duplicate project %q", p.Name)
	}
	r.projectIndex[p.Name] = p
	r.Projects = append(r.Projects, p)
	return nil
}

// Machine looks up a machine by name.
func (r *Runscript) Machine(name string) (*Machine, bool) {
	m, ok := r.machineIndex[name]
	return m, ok
}

// Config looks up a config by name.
func (r *Runscript) Config(name string) (*Config, bool) {
	c, ok := r.configIndex[name]
	return c, ok
}

// System looks up a system by name and version.
func (r *Runscript) System(name, version string) (*System, bool) {
	s, ok := r.systemIndex[SystemKey{name, version}]
	return s, ok
}

// Job looks up a job by name.
func (r *Runscript) Job(name string) (Job, bool) {
	j, ok := r.jobIndex[name]
	return j, ok
}

// Benchmark looks up a benchmark by name.
func (r *Runscript) Benchmark(name string) (*Benchmark, bool) {
	b, ok := r.benchmarkIndex[name]
	return b, ok
}
