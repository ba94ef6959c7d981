// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "strings"

// TagSet is a set of tags attached to a setting or instance.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from the given tags.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given tag.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// TagExpr is a tag expression in disjunctive normal form: OR-groups
// separated by "|", each group a space-separated conjunction of required
// tags. The empty expression and the sentinel "*all*" match any tag set.
//
// The same expression type drives setting selection in runtags, encoding
// selection, and instance filtering in discovered spec files.
type TagExpr struct {
	all    bool
	groups [][]string
}

// MatchAll is the sentinel expression text that matches unconditionally.
const MatchAll = "*all*"

// ParseTagExpr parses a tag expression string.
func ParseTagExpr(expr string) TagExpr {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == MatchAll {
		return TagExpr{all: true}
	}
	var groups [][]string
	for _, conj := range strings.Split(expr, "|") {
		groups = append(groups, strings.Fields(conj))
	}
	return TagExpr{groups: groups}
}

// Matches reports whether at least one OR-group of the expression has all
// of its tags present in the given set.
func (e TagExpr) Matches(tags TagSet) bool {
	if e.all {
		return true
	}
	for _, conj := range e.groups {
		found := true
		for _, t := range conj {
			if !tags.Has(t) {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
