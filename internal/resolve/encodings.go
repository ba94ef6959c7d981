// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolve

import "github.com/vk/benchgridgo/internal/model"

// Encodings computes the ordered encoding list for one (instance, setting)
// pair. The order is significant and fixed: container-level untagged
// encodings first, then container-level tagged ones whose tag expression
// matches the instance's effective encoding-tag set, then the same two
// groups at setting level. A file reachable through several matches is
// attached once, at its first occurrence.
func Encodings(inst *model.Instance, setting *model.Setting) []string {
	var out []string
	seen := make(map[string]struct{})
	attach := func(file string) {
		if _, ok := seen[file]; ok {
			return
		}
		seen[file] = struct{}{}
		out = append(out, file)
	}
	pass := func(encs []model.Encoding, tagged bool) {
		for _, enc := range encs {
			if (enc.Tag != "") != tagged {
				continue
			}
			if tagged && !model.ParseTagExpr(enc.Tag).Matches(inst.EncTags) {
				continue
			}
			attach(enc.File)
		}
	}
	pass(inst.Encodings, false)
	pass(inst.Encodings, true)
	pass(setting.Encodings, false)
	pass(setting.Encodings, true)
	return out
}
