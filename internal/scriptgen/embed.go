// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scriptgen

import (
	_ "embed"
	"text/template"
)

//go:embed templates/seq_start.sh.tmpl
var seqLauncherText string

//go:embed templates/dist_start.sh.tmpl
var distLauncherText string

var (
	seqLauncherTmpl  = template.Must(template.New("seq_start").Parse(seqLauncherText))
	distLauncherTmpl = template.Must(template.New("dist_start").Parse(distLauncherText))
)
