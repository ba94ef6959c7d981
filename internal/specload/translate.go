// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package specload

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/benchgridgo/internal/model"
	"github.com/vk/benchgridgo/internal/specfile"
	"github.com/vk/benchgridgo/internal/timefmt"
)

type hclRoot struct {
	Output     string          `hcl:"output,optional"`
	Machines   []*hclMachine   `hcl:"machine,block"`
	Configs    []*hclConfig    `hcl:"config,block"`
	Systems    []*hclSystem    `hcl:"system,block"`
	SeqJobs    []*hclSeqJob    `hcl:"seqjob,block"`
	DistJobs   []*hclDistJob   `hcl:"distjob,block"`
	Benchmarks []*hclBenchmark `hcl:"benchmark,block"`
	Projects   []*hclProject   `hcl:"project,block"`
}

type hclMachine struct {
	Name   string `hcl:"name,label"`
	CPU    string `hcl:"cpu,optional"`
	Memory string `hcl:"memory,optional"`
}

type hclConfig struct {
	Name     string `hcl:"name,label"`
	Template string `hcl:"template"`
}

type hclSystem struct {
	Name        string        `hcl:"name,label"`
	Version     string        `hcl:"version,label"`
	Measures    string        `hcl:"measures,optional"`
	Config      string        `hcl:"config"`
	Cmdline     string        `hcl:"cmdline,optional"`
	CmdlinePost string        `hcl:"cmdline_post,optional"`
	Settings    []*hclSetting `hcl:"setting,block"`
}

type hclSetting struct {
	Name         string         `hcl:"name,label"`
	Cmdline      string         `hcl:"cmdline,optional"`
	CmdlinePost  string         `hcl:"cmdline_post,optional"`
	Tags         []string       `hcl:"tags,optional"`
	DistTemplate string         `hcl:"dist_template,optional"`
	DistOptions  string         `hcl:"dist_options,optional"`
	Encodings    []*hclEncoding `hcl:"encoding,block"`
	Variables    []*hclVariable `hcl:"variable,block"`
}

type hclVariable struct {
	Cmd    string `hcl:"cmd"`
	Range  string `hcl:"range,optional"`
	Values string `hcl:"values,optional"`
	Post   bool   `hcl:"post,optional"`
}

type hclEncoding struct {
	File string `hcl:"file"`
	Tag  string `hcl:"tag,optional"`
}

type hclSeqJob struct {
	Name     string   `hcl:"name,label"`
	Timeout  string   `hcl:"timeout"`
	Runs     int      `hcl:"runs,optional"`
	Parallel int      `hcl:"parallel"`
	Memout   int      `hcl:"memout,optional"`
	Remain   hcl.Body `hcl:",remain"`
}

type hclDistJob struct {
	Name       string   `hcl:"name,label"`
	Timeout    string   `hcl:"timeout"`
	Runs       int      `hcl:"runs,optional"`
	ScriptMode string   `hcl:"script_mode,optional"`
	Walltime   string   `hcl:"walltime,optional"`
	CPT        int      `hcl:"cpt,optional"`
	Partition  string   `hcl:"partition,optional"`
	Memout     int      `hcl:"memout,optional"`
	Remain     hcl.Body `hcl:",remain"`
}

type hclBenchmark struct {
	Name    string       `hcl:"name,label"`
	Folders []*hclFolder `hcl:"folder,block"`
	Files   []*hclFiles  `hcl:"files,block"`
	Specs   []*hclSpec   `hcl:"spec,block"`
}

type hclFolder struct {
	Path      string         `hcl:"path"`
	Group     bool           `hcl:"group,optional"`
	EncTags   []string       `hcl:"enctags,optional"`
	Ignores   []*hclIgnore   `hcl:"ignore,block"`
	Encodings []*hclEncoding `hcl:"encoding,block"`
}

type hclIgnore struct {
	Prefix string `hcl:"prefix"`
}

type hclFiles struct {
	Path      string         `hcl:"path"`
	EncTags   []string       `hcl:"enctags,optional"`
	Adds      []*hclAdd      `hcl:"add,block"`
	Encodings []*hclEncoding `hcl:"encoding,block"`
}

type hclAdd struct {
	File        string `hcl:"file"`
	Group       string `hcl:"group,optional"`
	Cmdline     string `hcl:"cmdline,optional"`
	CmdlinePost string `hcl:"cmdline_post,optional"`
}

type hclSpec struct {
	Path        string `hcl:"path"`
	InstanceTag string `hcl:"instance_tag,optional"`
}

type hclProject struct {
	Name     string        `hcl:"name,label"`
	Job      string        `hcl:"job"`
	RunSpecs []*hclRunSpec `hcl:"runspec,block"`
	RunTags  []*hclRunTag  `hcl:"runtag,block"`
}

type hclRunSpec struct {
	Machine   string `hcl:"machine"`
	Benchmark string `hcl:"benchmark"`
	System    string `hcl:"system"`
	Version   string `hcl:"version"`
	Setting   string `hcl:"setting"`
}

type hclRunTag struct {
	Machine   string `hcl:"machine"`
	Benchmark string `hcl:"benchmark"`
	Tag       string `hcl:"tag"`
}

func translateSystem(s *hclSystem) (*model.System, error) {
	sys := &model.System{
		Name:        s.Name,
		Version:     s.Version,
		Measures:    s.Measures,
		ConfigName:  s.Config,
		Cmdline:     s.Cmdline,
		CmdlinePost: s.CmdlinePost,
	}
	var errs []error
	for _, hs := range s.Settings {
		base, err := translateSetting(sys, hs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for derived := range base.Expand() {
			if err := sys.AddSetting(base.Name, derived); err != nil {
				errs = append(errs, fmt.Errorf("system %s: %w", sys.Solver(), err))
			}
		}
	}
	return sys, errors.Join(errs...)
}

func translateSetting(sys *model.System, hs *hclSetting) (*model.Setting, error) {
	setting := &model.Setting{
		Name:         hs.Name,
		Cmdline:      hs.Cmdline,
		CmdlinePost:  hs.CmdlinePost,
		Tags:         model.NewTagSet(hs.Tags...),
		DistTemplate: hs.DistTemplate,
		DistOptions:  hs.DistOptions,
	}
	if setting.DistTemplate == "" {
		setting.DistTemplate = model.DefaultDistTemplate
	}
	where := fmt.Sprintf("system %s setting %q", sys.Solver(), hs.Name)
	encs, err := translateEncodings(hs.Encodings, where)
	if err != nil {
		return nil, err
	}
	setting.Encodings = encs
	for _, hv := range hs.Variables {
		def, err := model.NewVariableDef(hv.Cmd, hv.Range, hv.Values, hv.Post)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		setting.Variables = append(setting.Variables, def)
	}
	return setting, nil
}

// translateEncodings rejects the same file declared twice under one tag in
// the same container; duplicates across containers are legal and deduped
// during resolution instead.
func translateEncodings(encs []*hclEncoding, where string) ([]model.Encoding, error) {
	out := make([]model.Encoding, 0, len(encs))
	seen := make(map[model.Encoding]struct{}, len(encs))
	for _, e := range encs {
		enc := model.Encoding{File: e.File, Tag: e.Tag}
		if _, ok := seen[enc]; ok {
			return nil, fmt.Errorf("%s: encoding %q declared twice", where, e.File)
		}
		seen[enc] = struct{}{}
		out = append(out, enc)
	}
	return out, nil
}

func translateJobCommon(name, timeout string, runs, memout int, remain hcl.Body) (model.JobCommon, error) {
	common := model.JobCommon{Name: name, Runs: runs, Memout: memout}
	seconds, err := timefmt.Parse(timeout)
	if err != nil {
		return common, fmt.Errorf("job %q: invalid timeout: %w", name, err)
	}
	common.Timeout = seconds
	if common.Runs == 0 {
		common.Runs = 1
	}
	if common.Runs < 0 {
		return common, fmt.Errorf("job %q: runs must be positive", name)
	}
	if common.Memout == 0 {
		common.Memout = model.DefaultMemout
	}
	opts, err := templateOptions(remain)
	if err != nil {
		return common, fmt.Errorf("job %q: %w", name, err)
	}
	common.TemplateOptions = opts
	return common, nil
}

func translateSeqJob(j *hclSeqJob) (*model.SeqJob, error) {
	common, err := translateJobCommon(j.Name, j.Timeout, j.Runs, j.Memout, j.Remain)
	if err != nil {
		return nil, err
	}
	if j.Parallel <= 0 {
		return nil, fmt.Errorf("job %q: parallel must be positive", j.Name)
	}
	return &model.SeqJob{JobCommon: common, Parallel: j.Parallel}, nil
}

func translateDistJob(j *hclDistJob) (*model.DistJob, error) {
	common, err := translateJobCommon(j.Name, j.Timeout, j.Runs, j.Memout, j.Remain)
	if err != nil {
		return nil, err
	}
	job := &model.DistJob{JobCommon: common, CPT: j.CPT, Partition: j.Partition}
	switch j.ScriptMode {
	case "", string(model.ScriptModeTimeout):
		job.ScriptMode = model.ScriptModeTimeout
	case string(model.ScriptModeMulti):
		job.ScriptMode = model.ScriptModeMulti
	default:
		return nil, fmt.Errorf("job %q: unknown script mode %q", j.Name, j.ScriptMode)
	}
	if j.Walltime == "" {
		if job.ScriptMode == model.ScriptModeTimeout {
			return nil, fmt.Errorf("job %q: timeout script mode requires a walltime", j.Name)
		}
	} else {
		seconds, err := timefmt.Parse(j.Walltime)
		if err != nil {
			return nil, fmt.Errorf("job %q: invalid walltime: %w", j.Name, err)
		}
		job.Walltime = seconds
	}
	if job.CPT <= 0 {
		job.CPT = 1
	}
	if job.Partition == "" {
		job.Partition = model.DefaultPartition
	}
	return job, nil
}

// templateOptions collects the free-form attributes of a job block. Values
// are converted to strings so templates can splice them directly.
func templateOptions(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	opts := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", name, err)
		}
		opts[name] = str.AsString()
	}
	return opts, nil
}

func translateBenchmark(b *hclBenchmark) (*model.Benchmark, error) {
	bench := &model.Benchmark{Name: b.Name}
	for _, f := range b.Folders {
		where := fmt.Sprintf("benchmark %q folder %q", b.Name, f.Path)
		encs, err := translateEncodings(f.Encodings, where)
		if err != nil {
			return nil, err
		}
		folder := &model.Folder{
			Path:      f.Path,
			Group:     f.Group,
			Encodings: encs,
			EncTags:   model.NewTagSet(f.EncTags...),
		}
		for _, ig := range f.Ignores {
			folder.AddIgnore(ig.Prefix)
		}
		bench.AddSource(folder)
	}
	for _, f := range b.Files {
		where := fmt.Sprintf("benchmark %q files %q", b.Name, f.Path)
		encs, err := translateEncodings(f.Encodings, where)
		if err != nil {
			return nil, err
		}
		src := &model.Files{
			Path:      f.Path,
			Encodings: encs,
			EncTags:   model.NewTagSet(f.EncTags...),
		}
		for _, add := range f.Adds {
			src.Adds = append(src.Adds, model.FileAdd{
				File:        add.File,
				Group:       add.Group,
				Cmdline:     add.Cmdline,
				CmdlinePost: add.CmdlinePost,
			})
		}
		bench.AddSource(src)
	}
	for _, sp := range b.Specs {
		bench.AddSource(&specfile.Source{Root: sp.Path, InstanceTag: sp.InstanceTag})
	}
	return bench, nil
}

func translateProject(p *hclProject) *model.Project {
	project := &model.Project{Name: p.Name, JobName: p.Job}
	for _, rs := range p.RunSpecs {
		project.Selections = append(project.Selections, model.RunSpec{
			Machine:   rs.Machine,
			Benchmark: rs.Benchmark,
			System:    rs.System,
			Version:   rs.Version,
			Setting:   rs.Setting,
		})
	}
	for _, rt := range p.RunTags {
		project.Selections = append(project.Selections, model.RunTag{
			Machine:   rt.Machine,
			Benchmark: rt.Benchmark,
			Tag:       rt.Tag,
		})
	}
	return project
}
