// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Variable expansion turns one declared setting with N parametrization axes
// into the cartesian product of its axes, one concrete setting per
// combination. The expansion is exposed as a lazy iter.Seq so large families
// never have to be materialized at once; iteration order is fixed by the
// declaration order of each axis, with later axes cycling fastest.

package model

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ValuePlaceholder is the token in a variable's cmd template that is
// replaced by the chosen value. A template without the token yields
// "cmd=value" fragments instead.
const ValuePlaceholder = "{value}"

// VariableDef is one parametrization axis on a setting.
type VariableDef struct {
	Cmd    string
	Values []string
	Post   bool
}

// NewVariableDef validates and builds a variable definition from either a
// range spec ("start,end,step") or a pool spec ("v1;v2;..."). Exactly one
// of the two must be given, and the resulting value list must be non-empty.
func NewVariableDef(cmd, rangeSpec, poolSpec string, post bool) (VariableDef, error) {
	if (rangeSpec == "") == (poolSpec == "") {
		return VariableDef{}, fmt.Errorf("variable %q: exactly one of range and values must be set", cmd)
	}
	var values []string
	var err error
	if rangeSpec != "" {
		values, err = parseRangeValues(rangeSpec)
	} else {
		values, err = parsePoolValues(poolSpec)
	}
	if err != nil {
		return VariableDef{}, fmt.Errorf("variable %q: %w", cmd, err)
	}
	return VariableDef{Cmd: cmd, Values: values, Post: post}, nil
}

// parseRangeValues expands "start,end,step" into the inclusive arithmetic
// sequence, as literal value texts.
func parseRangeValues(spec string) ([]string, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid range %q: expected start,end,step", spec)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %q is not an integer", spec, p)
		}
		nums[i] = n
	}
	start, end, step := nums[0], nums[1], nums[2]
	if step == 0 || (end-start)*step < 0 {
		return nil, fmt.Errorf("degenerate range %q", spec)
	}
	var values []string
	if step > 0 {
		for v := start; v <= end; v += step {
			values = append(values, strconv.Itoa(v))
		}
	} else {
		for v := start; v >= end; v += step {
			values = append(values, strconv.Itoa(v))
		}
	}
	return values, nil
}

// parsePoolValues splits "v1;v2;..." into its literal elements.
func parsePoolValues(spec string) ([]string, error) {
	var values []string
	for _, v := range strings.Split(spec, ";") {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("empty value in pool %q", spec)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty pool %q", spec)
	}
	return values, nil
}

// fragment renders the command-line fragment for one chosen value.
func (v VariableDef) fragment(value string) string {
	if strings.Contains(v.Cmd, ValuePlaceholder) {
		return strings.ReplaceAll(v.Cmd, ValuePlaceholder, value)
	}
	return v.Cmd + "=" + value
}

// Expand returns the family of concrete settings derived from s. A setting
// without variables passes through unchanged as a family of one. The
// sequence is restartable and finite.
func (s *Setting) Expand() iter.Seq[*Setting] {
	return func(yield func(*Setting) bool) {
		if len(s.Variables) == 0 {
			yield(s)
			return
		}
		idx := make([]int, len(s.Variables))
		for {
			if !yield(s.derive(idx)) {
				return
			}
			k := len(idx) - 1
			for k >= 0 {
				idx[k]++
				if idx[k] < len(s.Variables[k].Values) {
					break
				}
				idx[k] = 0
				k--
			}
			if k < 0 {
				return
			}
		}
	}
}

// derive builds the concrete setting for one combination of axis indices.
// The generated name appends one underscore-joined suffix per axis, using
// the literal value text.
func (s *Setting) derive(idx []int) *Setting {
	name := s.Name
	cmdline := s.Cmdline
	post := s.CmdlinePost
	for i, v := range s.Variables {
		value := v.Values[idx[i]]
		name += "_" + value
		frag := v.fragment(value)
		if v.Post {
			post = joinFragments(post, frag)
		} else {
			cmdline = joinFragments(cmdline, frag)
		}
	}
	return &Setting{
		Name:         name,
		Cmdline:      cmdline,
		CmdlinePost:  post,
		Tags:         s.Tags,
		DistTemplate: s.DistTemplate,
		DistOptions:  s.DistOptions,
		Encodings:    s.Encodings,
	}
}

func joinFragments(base, frag string) string {
	if base == "" {
		return frag
	}
	return base + " " + frag
}
