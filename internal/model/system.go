// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// Machine describes a named execution host. The descriptors are free text
// and only end up in reports; the name is what runtags and runspecs refer to.
type Machine struct {
	Name   string
	CPU    string
	Memory string
}

// Config names a run template used for start script generation.
type Config struct {
	Name     string
	Template string
}

// Encoding is a file attached to a run. An empty Tag means the encoding is
// always attached where it is declared; otherwise Tag is a tag expression
// matched against the effective encoding-tag set of the instance.
type Encoding struct {
	File string
	Tag  string
}

// System describes a solver under test at a fixed version. A system owns
// its settings; the (name, version) pair identifies the executable the run
// template is expected to find.
type System struct {
	Name    string
	Version string
	// Measures names the result parser downstream evaluation applies to
	// this system's runs; it is carried through, never interpreted here.
	Measures    string
	ConfigName  string
	Cmdline     string
	CmdlinePost string

	Config *Config // resolved from ConfigName during load

	// Settings holds the concrete, variable-expanded settings in
	// declaration order. families maps a declared setting name to the
	// settings it expanded into, so a runspec naming the base of a
	// generated family selects every member.
	Settings []*Setting

	settingIndex map[string]*Setting
	families     map[string][]*Setting
}

// Solver returns the "name-version" identifier used in output paths and
// run templates.
func (s *System) Solver() string {
	return s.Name + "-" + s.Version
}

// AddSetting registers a concrete setting under the given declared family
// name. Setting names must be unique within the system, generated names
// included.
func (s *System) AddSetting(family string, setting *Setting) error {
	if s.settingIndex == nil {
		s.settingIndex = make(map[string]*Setting)
		s.families = make(map[string][]*Setting)
	}
	if _, ok := s.settingIndex[setting.Name]; ok {
		return fmt.Errorf("system %s: duplicate setting %q", s.Solver(), setting.Name)
	}
	s.Settings = append(s.Settings, setting)
	s.settingIndex[setting.Name] = setting
	s.families[family] = append(s.families[family], setting)
	return nil
}

// SettingFamily resolves a setting name as written in a runspec: the name
// of a declared setting selects its whole expanded family, the name of a
// single generated setting selects just that one.
func (s *System) SettingFamily(name string) []*Setting {
	if family, ok := s.families[name]; ok {
		return family
	}
	if setting, ok := s.settingIndex[name]; ok {
		return []*Setting{setting}
	}
	return nil
}

// Setting is a named variant of a system invocation. Derived settings
// produced by variable expansion are ordinary settings; only declared
// settings carry Variables.
type Setting struct {
	Name         string
	Cmdline      string
	CmdlinePost  string
	Tags         TagSet
	DistTemplate string
	DistOptions  string
	Encodings    []Encoding
	Variables    []VariableDef
}
