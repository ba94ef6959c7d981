// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolve

import "github.com/vk/benchgridgo/internal/model"

// Compose merges the command-line fragments of system, setting, and
// instance in the fixed global order. Absent fragments contribute nothing.
// Grouped instances contribute one fragment per member, in declaration
// order.
func Compose(sys *model.System, setting *model.Setting, inst *model.Instance) (pre, post []string) {
	if sys.Cmdline != "" {
		pre = append(pre, sys.Cmdline)
	}
	if setting.Cmdline != "" {
		pre = append(pre, setting.Cmdline)
	}
	if sys.CmdlinePost != "" {
		post = append(post, sys.CmdlinePost)
	}
	if setting.CmdlinePost != "" {
		post = append(post, setting.CmdlinePost)
	}
	for _, m := range inst.Members {
		if m.Cmdline != "" {
			pre = append(pre, m.Cmdline)
		}
	}
	for _, m := range inst.Members {
		if m.CmdlinePost != "" {
			post = append(post, m.CmdlinePost)
		}
	}
	return pre, post
}
