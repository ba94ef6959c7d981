// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// The generator is the top-level resolver. For each project it expands its
// runtag/runspec selections into (system, setting) pairs, crosses them with
// every class, instance, and run index of the referenced benchmark, and
// emits one run descriptor per combination. Projects are independent, so
// they resolve in parallel; results are stitched back in declaration order,
// which keeps the overall descriptor sequence deterministic.

package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vk/benchgridgo/internal/ctxlog"
	"github.com/vk/benchgridgo/internal/model"
)

// Plan is the complete, ordered result of one resolution pass.
type Plan struct {
	Descriptors []model.RunDescriptor
}

// PerMachine groups a project's descriptors by machine, preserving
// descriptor order and the order in which machines first appear.
func (p *Plan) PerMachine(project string) (machines []string, byMachine map[string][]model.RunDescriptor) {
	byMachine = make(map[string][]model.RunDescriptor)
	for _, d := range p.Descriptors {
		if d.Project != project {
			continue
		}
		if _, ok := byMachine[d.Machine]; !ok {
			machines = append(machines, d.Machine)
		}
		byMachine[d.Machine] = append(byMachine[d.Machine], d)
	}
	return machines, byMachine
}

// pair is one selected system/setting combination.
type pair struct {
	sys     *model.System
	setting *model.Setting
}

// Generate resolves the whole specification graph into a plan. Errors are
// accumulated in the returned report; a failing project or benchmark never
// suppresses generation for its siblings.
func Generate(ctx context.Context, rs *model.Runscript) (*Plan, *Report) {
	logger := ctxlog.FromContext(ctx)
	report := NewReport()

	// Benchmarks are shared between projects, so initialize every
	// referenced one up front; afterwards project resolution only reads.
	referenced := referencedBenchmarks(rs)
	for _, bench := range rs.Benchmarks {
		if _, ok := referenced[bench.Name]; !ok {
			continue
		}
		if err := bench.Init(); err != nil {
			report.Errorf("%s", err)
		} else if len(bench.Classes) == 0 {
			report.Warnf("benchmark %s resolved to zero instances", bench.Name)
		}
	}

	results := make([][]model.RunDescriptor, len(rs.Projects))
	reports := make([]*Report, len(rs.Projects))
	g, _ := errgroup.WithContext(ctx)
	for i, project := range rs.Projects {
		g.Go(func() error {
			results[i], reports[i] = generateProject(rs, project)
			return nil
		})
	}
	// The only error source inside the group is the report itself.
	_ = g.Wait()

	plan := &Plan{}
	for i := range rs.Projects {
		plan.Descriptors = append(plan.Descriptors, results[i]...)
		report.Merge(reports[i])
	}
	logger.Debug("resolution finished",
		"projects", len(rs.Projects),
		"descriptors", len(plan.Descriptors),
		"errors", len(report.Errors()),
		"warnings", len(report.Warnings()))
	return plan, report
}

func referencedBenchmarks(rs *model.Runscript) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, p := range rs.Projects {
		for _, sel := range p.Selections {
			switch sel := sel.(type) {
			case model.RunTag:
				refs[sel.Benchmark] = struct{}{}
			case model.RunSpec:
				refs[sel.Benchmark] = struct{}{}
			}
		}
	}
	return refs
}

// generateProject resolves one project. A reference error aborts the whole
// project (the report names the offending reference); a benchmark whose
// initialization failed is skipped because its error is already on record.
func generateProject(rs *model.Runscript, project *model.Project) ([]model.RunDescriptor, *Report) {
	report := NewReport()
	job, ok := rs.Job(project.JobName)
	if !ok {
		report.Errorf("project %s: job %q is not declared", project.Name, project.JobName)
		return nil, report
	}

	var descs []model.RunDescriptor
	for _, sel := range project.Selections {
		machineName, benchName := selectionTarget(sel)
		machine, ok := rs.Machine(machineName)
		if !ok {
			report.Errorf("project %s: machine %q is not declared", project.Name, machineName)
			return nil, report
		}
		bench, ok := rs.Benchmark(benchName)
		if !ok {
			report.Errorf("project %s: benchmark %q is not declared", project.Name, benchName)
			return nil, report
		}

		var pairs []pair
		switch sel := sel.(type) {
		case model.RunSpec:
			sys, ok := rs.System(sel.System, sel.Version)
			if !ok {
				report.Errorf("project %s: system %s-%s is not declared", project.Name, sel.System, sel.Version)
				return nil, report
			}
			family := sys.SettingFamily(sel.Setting)
			if len(family) == 0 {
				report.Errorf("project %s: system %s has no setting %q", project.Name, sys.Solver(), sel.Setting)
				return nil, report
			}
			for _, setting := range family {
				pairs = append(pairs, pair{sys, setting})
			}
		case model.RunTag:
			expr := model.ParseTagExpr(sel.Tag)
			for _, sys := range rs.Systems {
				for _, setting := range sys.Settings {
					if expr.Matches(setting.Tags) {
						pairs = append(pairs, pair{sys, setting})
					}
				}
			}
			if len(pairs) == 0 {
				report.Warnf("project %s: runtag %q matched no setting", project.Name, sel.Tag)
			}
		}

		if bench.Init() != nil {
			// Reported once, globally; the selection just yields nothing.
			continue
		}
		for _, pr := range pairs {
			descs = append(descs, generateRuns(rs, project, machine, bench, pr, job)...)
		}
	}
	return descs, report
}

func selectionTarget(sel model.Selection) (machine, benchmark string) {
	switch sel := sel.(type) {
	case model.RunTag:
		return sel.Machine, sel.Benchmark
	case model.RunSpec:
		return sel.Machine, sel.Benchmark
	}
	return "", ""
}

// generateRuns emits the descriptors for one (machine, benchmark, system,
// setting) combination: every class, every instance, every run index.
func generateRuns(rs *model.Runscript, project *model.Project, machine *model.Machine,
	bench *model.Benchmark, pr pair, job model.Job) []model.RunDescriptor {

	common := job.Common()
	var descs []model.RunDescriptor
	var template string
	if pr.sys.Config != nil {
		template = pr.sys.Config.Template
	}
	for _, class := range bench.Classes {
		for _, inst := range class.Instances {
			pre, post := Compose(pr.sys, pr.setting, inst)
			encodings := Encodings(inst, pr.setting)
			for run := 1; run <= common.Runs; run++ {
				descs = append(descs, model.RunDescriptor{
					Project:      project.Name,
					Machine:      machine.Name,
					System:       pr.sys.Name,
					Version:      pr.sys.Version,
					Setting:      pr.setting.Name,
					Benchmark:    bench.Name,
					Class:        class.Name,
					Instance:     inst.Name,
					Run:          run,
					Files:        inst.Paths(),
					Encodings:    encodings,
					Cmdline:      pre,
					CmdlinePost:  post,
					Timeout:      common.Timeout,
					Memout:       common.Memout,
					Template:     template,
					DistTemplate: pr.setting.DistTemplate,
					DistOptions:  pr.setting.DistOptions,
					Path: model.RunPath(rs.Output, project.Name, machine.Name, bench.Name,
						pr.sys.Name, pr.sys.Version, pr.setting.Name, class.Name, inst.Name, run),
				})
			}
		}
	}
	return descs
}
